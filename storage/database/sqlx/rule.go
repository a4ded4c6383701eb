package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

type ruleRepository struct{}

var _ grading.Repository = (*ruleRepository)(nil)

func NewRuleRepository() grading.Repository {
	return &ruleRepository{}
}

func (repo ruleRepository) FindRule(ctx context.Context, exec core.DBExecutor, score int) (grading.Rule, error) {
	var rule grading.Rule
	q := exec.Rebind("SELECT min_score, max_score, grade FROM rules WHERE min_score <= ? AND max_score >= ?")
	if err := exec.GetContext(ctx, &rule, q, score, score); err != nil {
		return grading.Rule{}, trapNoRowsErr(err, grading.ErrNoMatchingRule)
	}
	return rule, nil
}

func (repo ruleRepository) QueryAllRules(ctx context.Context, exec core.DBExecutor) ([]grading.Rule, error) {
	rules := make([]grading.Rule, 0, 5)
	q := "SELECT min_score, max_score, grade FROM rules ORDER BY min_score DESC"
	if err := exec.SelectContext(ctx, &rules, q); err != nil {
		return nil, errors.Wrap(err, "selecting rules")
	}
	return rules, nil
}
