package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksort-dev/banksort/internal/model"
)

func TestValidate(t *testing.T) {
	ok := &model.Transaction{
		Date:        time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		Description: "UPI GROCERY",
		Debit:       model.NewAmount(decimal.RequireFromString("450")),
		Rows:        []int{4},
	}
	noDate := &model.Transaction{
		Description: "ORPHAN",
		Credit:      model.NewAmount(decimal.RequireFromString("100")),
		Rows:        []int{7},
	}
	noAmount := &model.Transaction{
		Date:        time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC),
		Description: "PENDING",
		Rows:        []int{9},
	}
	zeroAmount := &model.Transaction{
		Date:        time.Date(2025, time.January, 17, 0, 0, 0, 0, time.UTC),
		Description: "ZERO FEE",
		Debit:       model.NewAmount(decimal.Zero),
		Rows:        []int{11},
	}
	noDesc := &model.Transaction{
		Date:   time.Date(2025, time.January, 18, 0, 0, 0, 0, time.UTC),
		Credit: model.NewAmount(decimal.RequireFromString("5")),
		Rows:   []int{12},
	}

	issues := Validate([]*model.Transaction{ok, noDate, noAmount, zeroAmount, noDesc})
	require.Len(t, issues, 4)

	types := make(map[string][]int)
	for _, is := range issues {
		assert.Equal(t, model.SeverityWarning, is.Severity)
		types[is.Type] = is.Rows
	}
	assert.Equal(t, []int{7}, types[model.IssueMissingDate])
	assert.Equal(t, []int{9}, types[model.IssueMissingAmount])
	assert.Equal(t, []int{11}, types[model.IssueZeroAmount])
	assert.Equal(t, []int{12}, types[model.IssueMissingDescription])
}

func TestValidateClean(t *testing.T) {
	clean := &model.Transaction{
		Date:        time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Description: "SALARY",
		Credit:      model.NewAmount(decimal.RequireFromString("50000")),
	}
	assert.Empty(t, Validate([]*model.Transaction{clean}))
}
