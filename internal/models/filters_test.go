package models

import (
	"testing"

	"godev-candidate-bot/internal/api/godev"

	"github.com/stretchr/testify/assert"
)

func TestParseEmploymentType(t *testing.T) {
	testCases := []struct {
		in   string
		want godev.EmploymentType
		ok   bool
	}{
		{in: "CLT", want: godev.EmploymentCLT, ok: true},
		{in: " Estágio ", want: godev.EmploymentInternship, ok: true},
		{in: "INTERNSHIP", want: godev.EmploymentInternship, ok: true},
		{in: "temporário", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseEmploymentType(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestParseWorkModelAndStatus(t *testing.T) {
	m, ok := ParseWorkModel("híbrido")
	assert.True(t, ok)
	assert.Equal(t, godev.WorkModelHybrid, m)

	m, ok = ParseWorkModel("on_site")
	assert.True(t, ok)
	assert.Equal(t, godev.WorkModelOnSite, m)

	_, ok = ParseWorkModel("lua")
	assert.False(t, ok)

	s, ok := ParseStatus("Entrevista")
	assert.True(t, ok)
	assert.Equal(t, godev.StatusInterview, s)

	s, ok = ParseStatus("under_review")
	assert.True(t, ok)
	assert.Equal(t, godev.StatusUnderReview, s)
}
