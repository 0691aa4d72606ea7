package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cambroos/rentals-backend/internal/cart"
	"github.com/cambroos/rentals-backend/internal/quote"
)

// requestFile is the on-disk stand-in for a browsing session: what was added to
// the cart and what the customer typed into the quote form.
type requestFile struct {
	Form  quote.Form `yaml:"form"`
	Items []lineSpec `yaml:"items"`
}

type lineSpec struct {
	cart.Product `yaml:",inline"`
	Quantity     int `yaml:"quantity"`
}

func loadRequestFile(path string) (*requestFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open request file: %w", err)
	}
	defer f.Close()
	return decodeRequest(f)
}

func decodeRequest(r io.Reader) (*requestFile, error) {
	var req requestFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request file is empty")
		}
		return nil, fmt.Errorf("decode request file: %w", err)
	}
	return &req, nil
}

// fill adds every line to store; a line without a quantity counts as one unit.
func (r *requestFile) fill(store *cart.Store) ([]cart.Notice, error) {
	var notices []cart.Notice
	id := store.Subscribe(func(n cart.Notice, _ []cart.Item) {
		notices = append(notices, n)
	})
	defer store.Unsubscribe(id)

	for i, line := range r.Items {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		if _, err := store.Add(line.Product, qty); err != nil {
			return notices, fmt.Errorf("item %d (%s): %w", i+1, line.ID, err)
		}
	}
	return notices, nil
}
