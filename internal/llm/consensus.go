package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/normalize"
)

// MinConsensusCalls is the smallest number of calls a consensus makes.
const MinConsensusCalls = 2

// ConsensusClassifier asks the provider several times and reconciles the
// replies by majority. Ties go to the side with the higher mean confidence,
// and the reported confidence is scaled by the share of agreeing replies.
type ConsensusClassifier struct {
	base   *Classifier
	logger *slog.Logger
	calls  int
}

// NewConsensusClassifier wraps base, issuing calls requests per name.
func NewConsensusClassifier(base *Classifier, calls int, logger *slog.Logger) *ConsensusClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsensusClassifier{
		base:   base,
		calls:  max(MinConsensusCalls, calls),
		logger: logger,
	}
}

// Classify returns the reconciled verdict. It fails only when every call
// failed, returning the first error.
func (c *ConsensusClassifier) Classify(ctx context.Context, name string) (Result, error) {
	key := normalize.Name(name)
	if cached, ok := c.base.cache.get(key); ok && cached.Votes > 1 {
		return cached, nil
	}

	replies := make([]Result, c.calls)
	errs := make([]error, c.calls)

	var g errgroup.Group
	for i := 0; i < c.calls; i++ {
		i := i
		g.Go(func() error {
			replies[i], errs[i] = c.base.query(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	var ok []Result
	var firstErr error
	for i, err := range errs {
		if err != nil {
			c.logger.Warn("Consensus call failed",
				"payee", name,
				"call", i+1,
				"error_kind", KindOf(err),
				"error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ok = append(ok, replies[i])
	}

	if len(ok) == 0 {
		return Result{}, firstErr
	}

	result := reconcile(ok)
	if key != "" {
		c.base.cache.set(key, result)
	}
	return result, nil
}

type tally struct {
	replies []Result
	sum     int
}

func (t tally) mean() float64 {
	if len(t.replies) == 0 {
		return 0
	}
	return float64(t.sum) / float64(len(t.replies))
}

func reconcile(replies []Result) Result {
	votes := map[model.Classification]*tally{
		model.Business:   {},
		model.Individual: {},
	}
	for _, r := range replies {
		t := votes[r.Classification]
		t.replies = append(t.replies, r)
		t.sum += r.Confidence
	}

	business, individual := votes[model.Business], votes[model.Individual]
	winner, winnerClass := business, model.Business
	switch {
	case len(individual.replies) > len(business.replies):
		winner, winnerClass = individual, model.Individual
	case len(individual.replies) == len(business.replies) && individual.mean() > business.mean():
		winner, winnerClass = individual, model.Individual
	}

	agreement := float64(len(winner.replies)) / float64(len(replies))

	// Lead with the most confident agreeing reply.
	sort.SliceStable(winner.replies, func(i, j int) bool {
		return winner.replies[i].Confidence > winner.replies[j].Confidence
	})
	lead := winner.replies[0]

	result := Result{
		Classification: winnerClass,
		Confidence:     model.ClampConfidence(int(math.Round(winner.mean() * agreement))),
		Reasoning:      fmt.Sprintf("Consensus %d/%d: %s", len(winner.replies), len(replies), lead.Reasoning),
		MatchingRules:  []string{fmt.Sprintf("AI consensus %d/%d", len(winner.replies), len(replies))},
		Votes:          len(replies),
	}

	if winnerClass == model.Business {
		for _, r := range winner.replies {
			if r.SICCode != "" {
				result.SICCode, result.SICDescription = r.SICCode, r.SICDescription
				break
			}
		}
	}

	return result
}
