package domain

import (
	"errors"
	"strings"
)

// Stock represents an entry of the searchable stock catalog
type Stock struct {
	Symbol string
	Name   string
}

// Validate ensures the stock adheres to domain rules
func (s *Stock) Validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return errors.New("stock symbol cannot be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("stock name cannot be empty")
	}
	return nil
}
