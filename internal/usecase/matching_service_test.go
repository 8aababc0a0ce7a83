package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenscan/backend/internal/domain"
)

func TestNewMatchingService(t *testing.T) {
	t.Run("creates service with provided threshold", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{MinConfidenceThreshold: 50})
		if svc.minConfidenceThreshold != 50 {
			t.Errorf("minConfidenceThreshold = %v, want 50", svc.minConfidenceThreshold)
		}
	})

	t.Run("uses defaults when unset", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{MinConfidenceThreshold: -10})
		assert.Equal(t, 40.0, svc.minConfidenceThreshold)
		assert.Equal(t, 1, svc.fuzzyEditDistance)
		assert.NotNil(t, svc.logger)
	})
}

func TestFindBestMatch(t *testing.T) {
	svc := NewMatchingService(MatchConfig{MinConfidenceThreshold: 40})
	ctx := context.Background()

	t.Run("returns error for nil request", func(t *testing.T) {
		_, err := svc.FindBestMatch(ctx, nil, []domain.USDAFood{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns error for blank product name", func(t *testing.T) {
		_, err := svc.FindBestMatch(ctx, &domain.SearchRequest{ProductName: "  "}, []domain.USDAFood{{FdcID: 1}})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("returns error for empty foods list", func(t *testing.T) {
		_, err := svc.FindBestMatch(ctx, &domain.SearchRequest{ProductName: "whole milk"}, nil)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("finds exact match with high confidence", func(t *testing.T) {
		foods := []domain.USDAFood{
			{FdcID: 123, Description: "Whole Milk"},
			{FdcID: 456, Description: "Skim Milk"},
		}

		result, err := svc.FindBestMatch(ctx, &domain.SearchRequest{ProductName: "whole milk"}, foods)
		require.NoError(t, err)
		assert.Equal(t, "123", result.FdcID)
		assert.GreaterOrEqual(t, result.MatchScore, 40.0)
		assert.ElementsMatch(t, []string{"whole", "milk"}, result.MatchedTokens)
	})

	t.Run("returns low confidence match with error", func(t *testing.T) {
		foods := []domain.USDAFood{{FdcID: 9, Description: "Broccoli, raw"}}

		result, err := svc.FindBestMatch(ctx, &domain.SearchRequest{ProductName: "chocolate"}, foods)
		assert.ErrorIs(t, err, domain.ErrLowConfidence)
		require.NotNil(t, result)
		assert.Equal(t, "9", result.FdcID)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.FindBestMatch(cancelled, &domain.SearchRequest{ProductName: "milk"}, []domain.USDAFood{{FdcID: 1, Description: "Milk"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateMatchScore(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})

	t.Run("brand in description adds bonus", func(t *testing.T) {
		without, _ := svc.calculateMatchScore("milk", "", "Tine milk", "")
		with, _ := svc.calculateMatchScore("milk", "Tine", "Tine milk", "")
		assert.Greater(t, with, without)
	})

	t.Run("generic reference data is preferred", func(t *testing.T) {
		branded, _ := svc.calculateMatchScore("oats", "", "Oats, rolled", "Branded")
		foundation, _ := svc.calculateMatchScore("oats", "", "Oats, rolled", "Foundation")
		assert.Greater(t, foundation, branded)
	})

	t.Run("score is capped at 100", func(t *testing.T) {
		score, _ := svc.calculateMatchScore("whole milk", "whole", "Whole Milk", "Foundation")
		assert.Equal(t, 100.0, score)
	})

	t.Run("no tokens scores zero", func(t *testing.T) {
		score, matched := svc.calculateMatchScore("12 oz", "", "Milk", "")
		assert.Zero(t, score)
		assert.Nil(t, matched)
	})
}

func TestFuzzyMatching(t *testing.T) {
	ctx := context.Background()
	request := &domain.SearchRequest{ProductName: "grilled chiken breast"}
	foods := []domain.USDAFood{{FdcID: 123, Description: "Grilled Chicken Breast"}}

	t.Run("finds close matches when enabled", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{MinConfidenceThreshold: 40, EnableFuzzyMatching: true, FuzzyEditDistance: 1})

		result, err := svc.FindBestMatch(ctx, request, foods)
		require.NoError(t, err)
		assert.Contains(t, result.MatchedTokens, "chiken~chicken")
	})

	t.Run("ignores typos when disabled", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{MinConfidenceThreshold: 40})

		result, _ := svc.FindBestMatch(ctx, request, foods)
		require.NotNil(t, result)
		for _, token := range result.MatchedTokens {
			assert.False(t, strings.Contains(token, "~"), "unexpected fuzzy token %q", token)
		}
	})
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{"drops units numbers and stop words", "Lettmelk 1,75 l med vanilje", []string{"lettmelk", "vanilje"}},
		{"keeps norwegian letters", "Smør, usaltet", []string{"smør", "usaltet"}},
		{"english noise", "milk 128 fl oz 12 pack", []string{"milk"}},
		{"empty", "", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tokenize(tc.input))
		})
	}
}

func TestTokenizeWithWeights(t *testing.T) {
	tokens := tokenizeWithWeights("organic milk milk premium")

	require.Len(t, tokens, 3, "duplicates are collapsed")
	assert.Equal(t, weightedToken{Token: "organic", Weight: weightDescriptive}, tokens[0])
	assert.Equal(t, weightedToken{Token: "milk", Weight: weightFood}, tokens[1])
	assert.Equal(t, weightedToken{Token: "premium", Weight: weightDefault}, tokens[2])
}

func TestGetTokenWeight(t *testing.T) {
	testCases := []struct {
		token string
		want  float64
	}{
		{"milk", weightFood},
		{"salmon", weightFood},
		{"whole", weightDescriptive},
		{"organic", weightDescriptive},
		{"xyz", weightDefault},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			if got := getTokenWeight(tc.token); got != tc.want {
				t.Errorf("getTokenWeight(%q) = %v, want %v", tc.token, got, tc.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("128"))
	assert.False(t, isNumeric("12a"))
	assert.False(t, isNumeric(""))
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		s1, s2 string
		want   int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"melk", "melk", 0},
		{"smør", "smor", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.s1+"_"+tc.s2, func(t *testing.T) {
			assert.Equal(t, tc.want, levenshteinDistance(tc.s1, tc.s2))
		})
	}
}

func TestFuzzyTokenMatch(t *testing.T) {
	assert.True(t, fuzzyTokenMatch("milk", "milk", 1))
	assert.True(t, fuzzyTokenMatch("melk", "milk", 1))
	assert.False(t, fuzzyTokenMatch("ost", "ast", 1), "short tokens never fuzzy match")
	assert.False(t, fuzzyTokenMatch("banan", "bananer", 1), "length difference over threshold")
}

func TestFindIntersectionAndUnion(t *testing.T) {
	count, matched := findIntersection([]string{"whole", "milk"}, []string{"milk", "skim", "milk"})
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"milk"}, matched)

	assert.Equal(t, 3, findUnion([]string{"whole", "milk"}, []string{"milk", "skim"}))
	assert.Equal(t, 0, findUnion(nil, nil))
}
