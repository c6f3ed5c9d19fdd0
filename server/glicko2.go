package main

import "math"

// --- Glicko-2 constants & helpers (paper values) ---
const (
	g2Scale = 173.7178          // rating scale between r<->mu
	q       = math.Ln10 / 400.0 // q = ln(10)/400
	pi2     = math.Pi * math.Pi
	g2Tau   = 0.5
)

// Glicko2 holds the public “1500-scale” values (not mu/phi).
type Glicko2 struct {
	Rating     float64 // r
	RD         float64 // RD
	Volatility float64 // sigma
	Periods    int     // rating periods applied
}

func NewGlicko2(start float64) Glicko2 {
	return Glicko2{Rating: start, RD: 350, Volatility: 0.06}
}

func toMuPhi(r, rd float64) (mu, phi float64)   { return (r - 1500.0) / g2Scale, rd / g2Scale }
func fromMuPhi(mu, phi float64) (r, rd float64) { return mu*g2Scale + 1500.0, phi * g2Scale }

func g(phi float64) float64 { return 1.0 / math.Sqrt(1.0+3.0*q*q*phi*phi/pi2) }
func gExp(mu, muj, phij float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(phij)*(mu-muj)))
}

// game is one round against an opponent; s is 1 for a win, 0 for a loss.
type game struct {
	opp Glicko2
	s   float64
}

// update applies one rating period. Opponents are taken as they stood at the
// start of the period. No games only widens RD.
func (a *Glicko2) update(games []game, tau float64) {
	muA, phiA := toMuPhi(a.Rating, a.RD)
	a.Periods++
	if len(games) == 0 {
		phiStar := math.Sqrt(phiA*phiA + a.Volatility*a.Volatility)
		a.Rating, a.RD = fromMuPhi(muA, phiStar)
		return
	}

	var sumG2E, sumGSE float64 // Σ g²E(1-E), Σ g(S-E)
	for _, gm := range games {
		muB, phiB := toMuPhi(gm.opp.Rating, gm.opp.RD)
		gB := g(phiB)
		e := gExp(muA, muB, phiB)
		sumG2E += gB * gB * e * (1.0 - e)
		sumGSE += gB * (gm.s - e)
	}
	v := 1.0 / (q * q * sumG2E)
	delta := v * q * sumGSE

	vol := a.Volatility
	if math.Abs(delta) >= 1e-12 {
		vol = newVolatility(phiA, v, delta, a.Volatility, tau)
	}
	phiStar := math.Sqrt(phiA*phiA + vol*vol)
	phiNew := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muNew := muA + phiNew*phiNew*q*sumGSE
	a.Rating, a.RD = fromMuPhi(muNew, phiNew)
	a.Volatility = vol
}

// newVolatility solves f(x)=0 for sigma' with the Illinois iteration.
func newVolatility(phi, v, delta, sigma, tau float64) float64 {
	a2 := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a2)/(tau*tau)
	}
	A := a2
	var B float64
	if delta*delta > phi*phi+v {
		B = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a2-k) < 0 && k < 1e6 {
			k *= 2.0
		}
		B = a2 - k
	}
	fA, fB := f(A), f(B)
	for it := 0; it < 60 && math.Abs(B-A) > 1e-6; it++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if math.IsNaN(fC) || math.IsInf(fC, 0) {
			break
		}
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	return math.Exp(B / 2.0)
}

// rateSimulation treats a whole simulation as one rating period: the bot plays
// every round against each dealer, and each dealer plays its rounds against
// the bot. Returns the bot's rating and one rating per result, in order.
func rateSimulation(results []simResult, start float64) (Glicko2, []Glicko2) {
	bot := NewGlicko2(start)
	dealers := make([]Glicko2, len(results))
	for i := range dealers {
		dealers[i] = NewGlicko2(start)
	}
	botStart := bot

	var botGames []game
	for i, r := range results {
		losses := r.Stats.Rounds - r.Stats.PlayerWins
		dealerGames := make([]game, 0, r.Stats.Rounds)
		for range r.Stats.PlayerWins {
			botGames = append(botGames, game{opp: dealers[i], s: 1})
			dealerGames = append(dealerGames, game{opp: botStart, s: 0})
		}
		for range losses {
			botGames = append(botGames, game{opp: dealers[i], s: 0})
			dealerGames = append(dealerGames, game{opp: botStart, s: 1})
		}
		dealers[i].update(dealerGames, g2Tau)
	}
	bot.update(botGames, g2Tau)
	return bot, dealers
}
