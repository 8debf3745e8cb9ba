package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sitepass/internal/entity"
)

// ResendNotifier delivers visit emails through the Resend HTTP API. Calls
// are bounded by the client timeout; the services treat any failure as
// log-and-continue.
type ResendNotifier struct {
	APIKey     string
	From       string
	AppBaseURL string
	HTTPClient *http.Client
}

func NewResendNotifier(apiKey string, from string, appBaseURL string) *ResendNotifier {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendNotifier{}
	}
	return &ResendNotifier{
		APIKey:     apiKey,
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *ResendNotifier) SendApprovalRequest(ctx context.Context, visitor entity.Visitor, employee entity.Employee, approvalToken string) error {
	if strings.TrimSpace(n.APIKey) == "" {
		return errors.New("notifier not configured")
	}
	approveLink := n.approvalURL(approvalToken, ApprovalActionApprove)
	rejectLink := n.approvalURL(approvalToken, ApprovalActionReject)

	subject := fmt.Sprintf("Visitor approval needed: %s", visitor.Name)
	html := fmt.Sprintf(
		"<p>%s has requested a visit (%s) on %s.</p>"+
			"<p><a href=\"%s\">Approve</a> | <a href=\"%s\">Reject</a></p>",
		visitor.Name, visitor.Purpose, visitor.ExpectedDate.Format("2006-01-02"),
		approveLink, rejectLink,
	)
	text := fmt.Sprintf(
		"%s has requested a visit (%s) on %s.\nApprove: %s\nReject: %s",
		visitor.Name, visitor.Purpose, visitor.ExpectedDate.Format("2006-01-02"),
		approveLink, rejectLink,
	)
	return n.send(ctx, employee.Email, subject, html, text)
}

func (n *ResendNotifier) SendStatusUpdate(ctx context.Context, visitor entity.Visitor, status entity.VisitorStatus, employee *entity.Employee) error {
	if strings.TrimSpace(n.APIKey) == "" {
		return errors.New("notifier not configured")
	}
	if strings.TrimSpace(visitor.Email) == "" {
		return nil
	}

	host := visitor.HostEmployee
	if employee != nil {
		host = employee.Name
	}
	subject := fmt.Sprintf("Your visit request was %s", status)
	html := fmt.Sprintf("<p>Hello %s,</p><p>your visit hosted by %s is now <b>%s</b>.</p>", visitor.Name, host, status)
	text := fmt.Sprintf("Hello %s, your visit hosted by %s is now %s.", visitor.Name, host, status)
	return n.send(ctx, visitor.Email, subject, html, text)
}

func (n *ResendNotifier) approvalURL(token string, action string) string {
	query := url.Values{}
	query.Set("token", token)
	query.Set("action", action)
	return fmt.Sprintf("%s/approvals?%s", n.AppBaseURL, query.Encode())
}

func (n *ResendNotifier) send(ctx context.Context, to string, subject string, html string, text string) error {
	if n.HTTPClient == nil {
		n.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	payload := map[string]any{
		"from":    n.From,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
		"text":    text,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+n.APIKey)
	request.Header.Set("Content-Type", "application/json")
	response, err := n.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("resend email failed with status %d", response.StatusCode)
	}
	return nil
}
