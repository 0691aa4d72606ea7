package relay

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/cambroos/rentals-backend/pkg/enums"
	"github.com/cambroos/rentals-backend/pkg/types"
)

const (
	notProvided      = "Not provided"
	noMessage        = "No additional message"
	operatorFromName = "%s - Quotation System"
	confirmFromName  = "%s Equipment Rentals"
	operatorSubject  = "New Quotation Request from %s"
	confirmSubject   = "Quotation Request Confirmation - %s"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl"))
)

// emailData is the view model shared by both emails.
type emailData struct {
	Reference     string
	Brand         string
	SupportEmail  string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Company       string
	ProjectTitle  string
	StartDate     string
	EndDate       string
	Region        string
	Message       string
	HasMessage    bool
	Items         []string
}

func newEmailData(order types.OrderRequest, reference, brand, supportEmail string) emailData {
	message := strings.TrimSpace(order.Message)
	items := make([]string, 0, len(order.CartItems))
	for _, item := range order.CartItems {
		items = append(items, item.Line())
	}
	return emailData{
		Reference:     reference,
		Brand:         brand,
		SupportEmail:  supportEmail,
		CustomerName:  orDefault(order.FullName(), notProvided),
		CustomerEmail: orDefault(order.Email, notProvided),
		Phone:         orDefault(order.Phone, notProvided),
		Company:       orDefault(order.Company, notProvided),
		ProjectTitle:  orDefault(order.ProjectTitle, notProvided),
		StartDate:     orDefault(order.StartDate, notProvided),
		EndDate:       orDefault(order.EndDate, notProvided),
		Region:        orDefault(regionLabel(order.Country), notProvided),
		Message:       orDefault(message, noMessage),
		HasMessage:    message != "",
		Items:         items,
	}
}

type rendered struct {
	HTML string
	Text string
}

func render(name string, data emailData) (rendered, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return rendered{}, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return rendered{}, fmt.Errorf("render %s text: %w", name, err)
	}
	return rendered{HTML: html.String(), Text: text.String()}, nil
}

func regionLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	return enums.Region(code).Label()
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
