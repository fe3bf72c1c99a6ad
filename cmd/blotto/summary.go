package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/olekukonko/tablewriter"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/trainer"
)

// roundBin aggregates consecutive rounds for display.
type roundBin struct {
	First, Last     int
	Matches         int
	LeftWins        int
	RightWins       int
	LeftPositive    int
	RightPositive   int
	LeftMeanReward  float64
	RightMeanReward float64
}

// binRounds groups results into at most maxRows bins of equal width (the
// last may be shorter). Mean rewards are weighted by matches.
func binRounds(results []trainer.RoundResult, maxRows int) []roundBin {
	if len(results) == 0 || maxRows < 1 {
		return nil
	}
	width := (len(results) + maxRows - 1) / maxRows

	var bins []roundBin
	for start := 0; start < len(results); start += width {
		end := start + width
		if end > len(results) {
			end = len(results)
		}

		b := roundBin{First: results[start].Round, Last: results[end-1].Round}
		var leftSum, rightSum float64
		for _, r := range results[start:end] {
			b.Matches += r.Matches
			b.LeftWins += r.LeftWins
			b.RightWins += r.RightWins
			b.LeftPositive += r.LeftPositive
			b.RightPositive += r.RightPositive
			leftSum += r.LeftMeanReward * float64(r.Matches)
			rightSum += r.RightMeanReward * float64(r.Matches)
		}
		if b.Matches > 0 {
			b.LeftMeanReward = leftSum / float64(b.Matches)
			b.RightMeanReward = rightSum / float64(b.Matches)
		}
		bins = append(bins, b)
	}
	return bins
}

func printRounds(w io.Writer, bins []roundBin) {
	if len(bins) == 0 {
		return
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Rounds", "Matches", "Left wins", "Right wins", "Left +", "Right +", "Left reward", "Right reward"}),
	)
	for _, b := range bins {
		rounds := fmt.Sprintf("%d", b.First+1)
		if b.Last != b.First {
			rounds = fmt.Sprintf("%d-%d", b.First+1, b.Last+1)
		}
		_ = table.Append([]string{
			rounds,
			fmt.Sprintf("%d", b.Matches),
			fmt.Sprintf("%d", b.LeftWins),
			fmt.Sprintf("%d", b.RightWins),
			fmt.Sprintf("%d", b.LeftPositive),
			fmt.Sprintf("%d", b.RightPositive),
			fmt.Sprintf("%.2f", b.LeftMeanReward),
			fmt.Sprintf("%.2f", b.RightMeanReward),
		})
	}
	_ = table.Render()
}

// exhibitionSummary is the tally of matches between two fixed strategies.
type exhibitionSummary struct {
	Played     int
	LeftWins   int
	LeftScore  int
	RightScore int
	// Sample is the first match, kept to show what each side plays.
	Sample game.MatchResult
}

func (s exhibitionSummary) LeftWinPercent() float64 {
	if s.Played == 0 {
		return 0
	}
	return 100 * float64(s.LeftWins) / float64(s.Played)
}

// exhibition plays n scored matches without feeding rewards back.
func exhibition(ctx context.Context, left, right game.Allocator, values game.PointValues, n int, rng *rand.Rand) (exhibitionSummary, error) {
	var s exhibitionSummary
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		m, err := game.Play(left, right, values, rng)
		if err != nil {
			return s, fmt.Errorf("exhibition match %d: %w", i, err)
		}
		if i == 0 {
			s.Sample = m
		}
		s.Played++
		s.LeftScore += m.LeftScore
		s.RightScore += m.RightScore
		if m.LeftWon {
			s.LeftWins++
		}
	}
	return s, nil
}

func printExhibition(w io.Writer, left, right strategy.Kind, s exhibitionSummary) {
	if s.Played == 0 {
		return
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Side", "Strategy", "Wins", "Avg score", "Sample allocation"}),
	)
	_ = table.Append([]string{
		"left",
		left.String(),
		fmt.Sprintf("%d", s.LeftWins),
		fmt.Sprintf("%.2f", float64(s.LeftScore)/float64(s.Played)),
		s.Sample.Left.String(),
	})
	_ = table.Append([]string{
		"right",
		right.String(),
		fmt.Sprintf("%d", s.Played-s.LeftWins),
		fmt.Sprintf("%.2f", float64(s.RightScore)/float64(s.Played)),
		s.Sample.Right.String(),
	})
	_ = table.Render()
}
