package quote

import (
	"strings"
	"time"

	"github.com/cambroos/rentals-backend/internal/cart"
	"github.com/cambroos/rentals-backend/pkg/enums"
	"github.com/cambroos/rentals-backend/pkg/types"
)

// DateLayout is the wire and form format for rental dates.
const DateLayout = "2006-01-02"

// Form is the raw quote form as typed by the customer.
type Form struct {
	FirstName    string `yaml:"firstName"`
	LastName     string `yaml:"lastName"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	Company      string `yaml:"company"`
	ProjectTitle string `yaml:"projectTitle"`
	StartDate    string `yaml:"startDate"`
	EndDate      string `yaml:"endDate"`
	Country      string `yaml:"country"`
	Message      string `yaml:"message"`
}

// Request is a validated form.
type Request struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Company      string
	ProjectTitle string
	StartDate    time.Time
	EndDate      time.Time
	Region       enums.Region
	Message      string
}

func (f Form) trimmed() Form {
	return Form{
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		Email:        strings.TrimSpace(f.Email),
		Phone:        strings.TrimSpace(f.Phone),
		Company:      strings.TrimSpace(f.Company),
		ProjectTitle: strings.TrimSpace(f.ProjectTitle),
		StartDate:    strings.TrimSpace(f.StartDate),
		EndDate:      strings.TrimSpace(f.EndDate),
		Country:      strings.TrimSpace(f.Country),
		Message:      strings.TrimSpace(f.Message),
	}
}

// BuildPayload flattens a validated request and a cart snapshot into the wire body.
// Items are copied; price and category never leave the client.
func BuildPayload(req Request, snapshot []cart.Item) types.OrderRequest {
	items := make([]types.OrderItem, 0, len(snapshot))
	for _, item := range snapshot {
		items = append(items, types.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Brand:    item.Brand,
			Quantity: item.Quantity,
		})
	}
	return types.OrderRequest{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		ProjectTitle: req.ProjectTitle,
		StartDate:    req.StartDate.Format(DateLayout),
		EndDate:      req.EndDate.Format(DateLayout),
		Country:      req.Region.String(),
		Message:      req.Message,
		CartItems:    items,
	}
}
