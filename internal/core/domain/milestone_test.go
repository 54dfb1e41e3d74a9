package domain_test

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/taskmarket/escrowpay/internal/core/domain"
)

func TestComputeMilestones(t *testing.T) {
	tests := []struct {
		name        string
		total       string
		expAmounts  []string
		expPercents []int
	}{
		{
			name:        "small amount is a single full payment",
			total:       "50000",
			expAmounts:  []string{"50000"},
			expPercents: []int{100},
		},
		{
			name:        "threshold amount stays single",
			total:       "200000",
			expAmounts:  []string{"200000"},
			expPercents: []int{100},
		},
		{
			name:        "above threshold splits in two halves",
			total:       "500000",
			expAmounts:  []string{"250000", "250000"},
			expPercents: []int{50, 50},
		},
		{
			name:        "odd amount halves still sum to total",
			total:       "200001",
			expAmounts:  []string{"100000.5", "100000.5"},
			expPercents: []int{50, 50},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			total := decimal.MustParse(test.total)
			milestones, err := domain.ComputeMilestones(total)
			assert.NoError(t, err)
			assert.Len(t, milestones, len(test.expAmounts))

			sum := decimal.Zero
			for i, m := range milestones {
				assert.Equal(t, i+1, m.Number)
				assert.Equal(t, domain.MilestonePending, m.Status)
				assert.Equal(t, test.expPercents[i], m.Percentage)
				assert.Zero(t, m.Amount.Cmp(decimal.MustParse(test.expAmounts[i])))
				sum, err = sum.Add(m.Amount)
				assert.NoError(t, err)
			}
			assert.Zero(t, sum.Cmp(total))
		})
	}
}

func TestOrderMetadata_Lookups(t *testing.T) {
	meta := &domain.OrderMetadata{
		Milestones: []domain.Milestone{
			{Number: 1, Amount: decimal.Hundred, Status: domain.MilestonePaid, TransactionID: "tx-1"},
			{Number: 2, Amount: decimal.Hundred, Status: domain.MilestonePending, TransactionID: "tx-2"},
		},
	}

	assert.Equal(t, 1, meta.Milestone(1).Number)
	assert.Nil(t, meta.Milestone(3))
	assert.Equal(t, 2, meta.MilestoneByTransaction("tx-2").Number)
	assert.Nil(t, meta.MilestoneByTransaction("tx-9"))

	// lookups return pointers into the plan, not copies
	meta.Milestone(2).Status = domain.MilestonePaid
	assert.Equal(t, domain.MilestonePaid, meta.Milestones[1].Status)
}

func TestOrderMetadata_FundingState(t *testing.T) {
	tests := []struct {
		name        string
		statuses    []domain.MilestoneStatus
		allFunded   bool
		allReleased bool
		paidCount   int
	}{
		{
			name:     "empty plan is never funded",
			statuses: nil,
		},
		{
			name:      "pending milestone blocks funding",
			statuses:  []domain.MilestoneStatus{domain.MilestonePaid, domain.MilestonePending},
			paidCount: 1,
		},
		{
			name:      "all paid means funded",
			statuses:  []domain.MilestoneStatus{domain.MilestonePaid, domain.MilestonePaid},
			allFunded: true,
			paidCount: 2,
		},
		{
			name:      "released counts as funded",
			statuses:  []domain.MilestoneStatus{domain.MilestoneReleased, domain.MilestonePaid},
			allFunded: true,
			paidCount: 1,
		},
		{
			name:        "fully released",
			statuses:    []domain.MilestoneStatus{domain.MilestoneReleased, domain.MilestoneReleased},
			allFunded:   true,
			allReleased: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			meta := &domain.OrderMetadata{}
			for i, status := range test.statuses {
				meta.Milestones = append(meta.Milestones, domain.Milestone{
					Number: i + 1,
					Amount: decimal.Hundred,
					Status: status,
				})
			}

			assert.Equal(t, test.allFunded, meta.AllFunded())
			assert.Equal(t, test.allReleased, meta.AllReleased())
			assert.Len(t, meta.PaidMilestones(), test.paidCount)
		})
	}
}
