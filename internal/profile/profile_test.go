package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chancify/chancify/internal/optfloat"
)

func TestCollegeUsesTesting(t *testing.T) {
	tests := []struct {
		policy string
		want   bool
	}{
		{"Blind", false},
		{"blind", false},
		{"Test-blind", false},
		{"test blind", false},
		{"Test-optional", true},
		{"Required", true},
		{"", true},
	}
	for _, tt := range tests {
		c := College{TestPolicy: tt.policy}
		assert.Equal(t, tt.want, c.UsesTesting(), "policy %q", tt.policy)
	}
}

func TestCollegeNeedAware(t *testing.T) {
	assert.True(t, College{FinancialAidPolicy: "Need-aware"}.NeedAware())
	assert.True(t, College{FinancialAidPolicy: "need-aware"}.NeedAware())
	assert.False(t, College{FinancialAidPolicy: "Need-blind"}.NeedAware())
	assert.False(t, College{}.NeedAware())
}

func TestAcceptanceRateOrDefault(t *testing.T) {
	assert.Equal(t, 0.1, College{}.AcceptanceRateOrDefault())
	assert.Equal(t, 0.04, College{AcceptanceRate: optfloat.Some(0.04)}.AcceptanceRateOrDefault())
	assert.Equal(t, 1.0, College{AcceptanceRate: optfloat.Some(1.7)}.AcceptanceRateOrDefault())
	assert.Equal(t, 0.0, College{AcceptanceRate: optfloat.Some(-0.2)}.AcceptanceRateOrDefault())
}

func TestPolicyGates(t *testing.T) {
	c := College{TestPolicy: "Blind", FinancialAidPolicy: "Need-aware"}
	p := c.Policy()
	assert.False(t, p.UsesTesting)
	assert.True(t, p.NeedAware)
}
