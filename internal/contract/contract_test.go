package contract_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/loanledger/internal/contract"
	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		tokens   map[string]string
		want     string
	}{
		{
			name:     "single substitution",
			template: "Borrower: {{client_name}}",
			tokens:   map[string]string{"client_name": "Maria Lopez"},
			want:     "Borrower: Maria Lopez",
		},
		{
			name:     "repeated token",
			template: "{{total_amount}} due, of which {{total_amount}} outstanding",
			tokens:   map[string]string{"total_amount": "630"},
			want:     "630 due, of which 630 outstanding",
		},
		{
			name:     "unknown token left verbatim",
			template: "Signed in {{city}} on {{issue_date}}",
			tokens:   map[string]string{"issue_date": "2024-03-01"},
			want:     "Signed in {{city}} on 2024-03-01",
		},
		{
			name:     "no tokens",
			template: "plain text",
			tokens:   nil,
			want:     "plain text",
		},
		{
			name:     "value containing braces is not re-expanded",
			template: "{{a}}",
			tokens:   map[string]string{"a": "{{b}}", "b": "x"},
			want:     "{{b}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contract.Render(tt.template, tt.tokens))
		})
	}
}

func TestBuildTokens(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rate := &domain.RateEntry{
		Principal:         decimal.NewFromInt(500),
		WeeklyInstallment: decimal.NewFromInt(105),
		InstallmentCount:  6,
		Active:            true,
	}
	loan := domain.NewLoan("loan-1", "client-1", "col-1", nil, rate, issueDate)

	data := &usecase.ContractData{
		Snapshot: &usecase.LoanSnapshot{Loan: loan},
		Client:   &domain.Client{ID: "client-1", Name: "Maria Lopez", Document: "40123456"},
		Collateral: &domain.Collateral{
			ID:             "col-1",
			Description:    "gold ring",
			EstimatedValue: decimal.NewFromInt(800),
		},
	}

	tokens := contract.BuildTokens(data)

	assert.Equal(t, "Maria Lopez", tokens["client_name"])
	assert.Equal(t, "500", tokens["principal"])
	assert.Equal(t, "105", tokens["weekly_installment"])
	assert.Equal(t, "6", tokens["installment_count"])
	assert.Equal(t, "630", tokens["total_amount"])
	assert.Equal(t, "2024-03-01", tokens["issue_date"])
	assert.Equal(t, "2024-04-12", tokens["due_date"])
	assert.Equal(t, "gold ring", tokens["collateral_description"])
	assert.Equal(t, "800", tokens["collateral_value"])

	_, ok := tokens["guarantor_name"]
	assert.False(t, ok, "no guarantor token without a guarantor")
}

func TestBuildTokens_WithGuarantor(t *testing.T) {
	issueDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	guarantorID := "client-2"
	rate := &domain.RateEntry{
		Principal:         decimal.NewFromInt(500),
		WeeklyInstallment: decimal.NewFromInt(105),
		InstallmentCount:  6,
		Active:            true,
	}
	loan := domain.NewLoan("loan-1", "client-1", "col-1", &guarantorID, rate, issueDate)

	data := &usecase.ContractData{
		Snapshot:   &usecase.LoanSnapshot{Loan: loan},
		Client:     &domain.Client{ID: "client-1", Name: "Maria Lopez", Document: "40123456"},
		Guarantor:  &domain.Client{ID: "client-2", Name: "Jorge Paz", Document: "38987654"},
		Collateral: &domain.Collateral{ID: "col-1", Description: "gold ring", EstimatedValue: decimal.NewFromInt(800)},
	}

	tokens := contract.BuildTokens(data)

	require.Contains(t, tokens, "guarantor_name")
	assert.Equal(t, "Jorge Paz", tokens["guarantor_name"])
	assert.Equal(t, "38987654", tokens["guarantor_document"])
}
