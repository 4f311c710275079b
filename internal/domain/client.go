package domain

import (
	"fmt"
	"strings"
	"time"
)

// Client is a borrower or guarantor record.
type Client struct {
	ID        string
	Name      string
	Document  string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks onboarding fields.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidClient)
	}

	if strings.TrimSpace(c.Document) == "" {
		return fmt.Errorf("%w: document is required", ErrInvalidClient)
	}

	return nil
}
