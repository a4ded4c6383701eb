package grading

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNoMatchingRule = errors.New("no grading rule matches score")
	ErrUnknownGrade   = errors.New("unknown grade")
)

// Rule maps the inclusive score range [MinScore, MaxScore] to a letter Grade.
type Rule struct {
	MinScore int    `db:"min_score"`
	MaxScore int    `db:"max_score"`
	Grade    string `db:"grade"`
}

func (r Rule) Contains(score int) bool {
	return r.MinScore <= score && score <= r.MaxScore
}

type Repository interface {
	// FindRule returns the rule containing score, or ErrNoMatchingRule.
	FindRule(ctx context.Context, exec core.DBExecutor, score int) (Rule, error)
	QueryAllRules(ctx context.Context, exec core.DBExecutor) ([]Rule, error)
}

// Engine derives letter grades from the rule table. Rules are read on every call.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// GradeFor returns the grade of the rule containing score.
// A missing rule means the rule table is misconfigured.
func (eng *Engine) GradeFor(ctx context.Context, exec core.DBExecutor, score int) (string, error) {
	rule, err := eng.repo.FindRule(ctx, exec, score)
	if err != nil {
		return "", errors.Wrapf(err, "finding rule for score %d", score)
	}
	return rule.Grade, nil
}

func (eng *Engine) Rules(ctx context.Context, exec core.DBExecutor) ([]Rule, error) {
	rules, err := eng.repo.QueryAllRules(ctx, exec)
	return rules, errors.Wrap(err, "querying rules")
}

// CheckRules verifies that rules form a gapless, non-overlapping partition:
// min <= max for each rule and max[i]+1 == min[i+1] once sorted by MinScore.
func CheckRules(rules []Rule) error {
	if len(rules) == 0 {
		return errors.New("rule table is empty")
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinScore < sorted[j].MinScore })

	seen := make(map[string]bool, len(sorted))
	for i, rule := range sorted {
		if rule.MinScore > rule.MaxScore {
			return fmt.Errorf("rule %s: min score %d is greater than max score %d", rule.Grade, rule.MinScore, rule.MaxScore)
		}
		if seen[rule.Grade] {
			return fmt.Errorf("grade %s appears more than once", rule.Grade)
		}
		seen[rule.Grade] = true

		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MaxScore+1 != rule.MinScore {
			return fmt.Errorf("rules %s (%d-%d) and %s (%d-%d) are not adjacent",
				prev.Grade, prev.MinScore, prev.MaxScore, rule.Grade, rule.MinScore, rule.MaxScore)
		}
	}
	return nil
}

// Passed reports whether grade is at least as good as passingGrade.
// An empty passingGrade always passes.
func Passed(rules []Rule, grade, passingGrade string) (bool, error) {
	if passingGrade == "" {
		return true, nil
	}

	find := func(g string) (Rule, error) {
		for _, rule := range rules {
			if rule.Grade == g {
				return rule, nil
			}
		}
		return Rule{}, errors.Wrap(ErrUnknownGrade, g)
	}

	got, err := find(grade)
	if err != nil {
		return false, err
	}
	want, err := find(passingGrade)
	if err != nil {
		return false, err
	}
	return got.MinScore >= want.MinScore, nil
}

// IsGrade reports whether g is one of the grades of rules.
func IsGrade(rules []Rule, g string) bool {
	for _, rule := range rules {
		if rule.Grade == g {
			return true
		}
	}
	return false
}
