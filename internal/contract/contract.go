// Package contract renders loan contract documents from plain-text templates.
// Templates carry {{token}} placeholders; rendering substitutes the known
// tokens literally and leaves unknown placeholders verbatim so a botched
// template is visible in the output instead of silently dropped.
package contract

import (
	"strconv"
	"strings"

	"github.com/iho/loanledger/internal/usecase"
)

const dateLayout = "2006-01-02"

// Render substitutes {{token}} placeholders in template with the given
// values. Placeholders without a matching token are left untouched.
func Render(template string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return template
	}

	pairs := make([]string, 0, len(tokens)*2)
	for name, value := range tokens {
		pairs = append(pairs, "{{"+name+"}}", value)
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// BuildTokens derives the token map for a loan's contract. Monetary values
// render with the decimal's own string form; dates as YYYY-MM-DD.
func BuildTokens(data *usecase.ContractData) map[string]string {
	loan := data.Snapshot.Loan

	tokens := map[string]string{
		"client_name":            data.Client.Name,
		"client_document":        data.Client.Document,
		"principal":              loan.Principal.String(),
		"weekly_installment":     loan.WeeklyInstallment.String(),
		"installment_count":      strconv.Itoa(loan.InstallmentCount),
		"total_amount":           loan.TotalAmount.String(),
		"paid_amount":            loan.PaidAmount.String(),
		"balance":                loan.Balance.String(),
		"issue_date":             loan.IssueDate.Format(dateLayout),
		"due_date":               loan.DueDate.Format(dateLayout),
		"collateral_description": data.Collateral.Description,
		"collateral_value":       data.Collateral.EstimatedValue.String(),
	}

	if data.Guarantor != nil {
		tokens["guarantor_name"] = data.Guarantor.Name
		tokens["guarantor_document"] = data.Guarantor.Document
	}

	return tokens
}
