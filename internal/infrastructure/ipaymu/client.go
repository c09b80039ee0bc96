package ipaymu

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// BankCode represents supported bank codes for VA
type BankCode string

const (
	BankBCA     BankCode = "bca"
	BankMandiri BankCode = "mandiri"
	BankBNI     BankCode = "bni"
	BankBRI     BankCode = "bri"
	BankCIMB    BankCode = "cimb"
)

// Config holds iPaymu API configuration
type Config struct {
	VA        string // Virtual Account number (merchant VA)
	APIKey    string // API Key from iPaymu
	BaseURL   string // Base URL (sandbox or production)
	NotifyURL string // Webhook URL for payment notifications
}

// Client is the iPaymu API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// VAResponse represents the response from VA creation
type VAResponse struct {
	VANumber  string
	SessionID string
	ExpiresAt time.Time
}

// DirectPaymentRequest represents the request body for direct VA payment
type DirectPaymentRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Amount         int64  `json:"amount"`
	NotifyURL      string `json:"notifyUrl"`
	Expired        int    `json:"expired"` // Expiry in hours
	Comments       string `json:"comments"`
	ReferenceID    string `json:"referenceId"`
	PaymentMethod  string `json:"paymentMethod"`
	PaymentChannel string `json:"paymentChannel"`
}

// DirectPaymentResponse represents the iPaymu API response
type DirectPaymentResponse struct {
	Status  int    `json:"Status"`
	Message string `json:"Message"`
	Data    struct {
		SessionID     string `json:"SessionId"`
		TransactionID int64  `json:"TransactionId"`
		ReferenceID   string `json:"ReferenceId"`
		Via           string `json:"Via"`
		Channel       string `json:"Channel"`
		PaymentNo     string `json:"PaymentNo"` // This is the VA number
		PaymentName   string `json:"PaymentName"`
		Total         int64  `json:"Total"`
		Fee           int64  `json:"Fee"`
		Expired       string `json:"Expired"` // ISO date string
	} `json:"Data"`
}

// RefundRequest represents the request body for a transaction refund
type RefundRequest struct {
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	Reason        string `json:"reason"`
}

// RefundResponse represents the iPaymu refund API response
type RefundResponse struct {
	Status  int    `json:"Status"`
	Message string `json:"Message"`
	Data    struct {
		RefundID      string `json:"RefundId"`
		TransactionID string `json:"TransactionId"`
		Amount        int64  `json:"Amount"`
	} `json:"Data"`
}

// NewClient creates a new iPaymu client
func NewClient(cfg Config) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// generateSignature creates the HMAC-SHA256 signature for iPaymu API
// Step 1: bodyHash = lowercase(sha256(jsonBody))
// Step 2: stringToSign = METHOD + ":" + va + ":" + bodyHash + ":" + apiKey
// Step 3: signature = lowercase(hmacSha256(apiKey, stringToSign))
func (c *Client) generateSignature(jsonBody []byte, method string) string {
	bodyHashBytes := sha256.Sum256(jsonBody)
	bodyHash := strings.ToLower(hex.EncodeToString(bodyHashBytes[:]))

	stringToSign := fmt.Sprintf("%s:%s:%s:%s", method, c.config.VA, bodyHash, c.config.APIKey)

	h := hmac.New(sha256.New, []byte(c.config.APIKey))
	h.Write([]byte(stringToSign))
	return strings.ToLower(hex.EncodeToString(h.Sum(nil)))
}

// CreateDirectVA creates a Virtual Account for direct payment
func (c *Client) CreateDirectVA(ctx context.Context, invoiceID string, amount int64, bankCode BankCode, buyerName, buyerEmail, buyerPhone string) (*VAResponse, error) {
	reqBody := DirectPaymentRequest{
		Name:           buyerName,
		Phone:          buyerPhone,
		Email:          buyerEmail,
		Amount:         amount,
		NotifyURL:      c.config.NotifyURL,
		Expired:        24,
		Comments:       "Boost purchase " + invoiceID,
		ReferenceID:    invoiceID,
		PaymentMethod:  "va",
		PaymentChannel: string(bankCode),
	}

	var apiResp DirectPaymentResponse
	if err := c.post(ctx, "/api/v2/payment/direct", reqBody, &apiResp); err != nil {
		return nil, err
	}

	if apiResp.Status != 200 {
		return nil, fmt.Errorf("iPaymu API error: %s", apiResp.Message)
	}

	expiresAt, _ := time.Parse(time.RFC3339, apiResp.Data.Expired)
	if expiresAt.IsZero() {
		// Fallback to 24 hours from now
		expiresAt = time.Now().UTC().Add(24 * time.Hour)
	}

	return &VAResponse{
		VANumber:  apiResp.Data.PaymentNo,
		SessionID: apiResp.Data.SessionID,
		ExpiresAt: expiresAt,
	}, nil
}

// Refund requests a refund for a settled transaction and returns the refund
// reference id.
func (c *Client) Refund(ctx context.Context, transactionID string, amount int64, reason string) (string, error) {
	reqBody := RefundRequest{
		TransactionID: transactionID,
		Amount:        amount,
		Reason:        reason,
	}

	var apiResp RefundResponse
	if err := c.post(ctx, "/api/v2/refund", reqBody, &apiResp); err != nil {
		return "", err
	}

	if apiResp.Status != 200 {
		return "", fmt.Errorf("iPaymu refund error: %s", apiResp.Message)
	}
	return apiResp.Data.RefundID, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	signature := c.generateSignature(jsonBody, "POST")
	url := c.config.BaseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("va", c.config.VA)
	req.Header.Set("signature", signature)
	req.Header.Set("timestamp", fmt.Sprintf("%d", time.Now().Unix()))

	log.Printf("[iPaymu] Calling %s", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[iPaymu] Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("iPaymu API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// MapBankCode converts a frontend bank name to an iPaymu bank code
func MapBankCode(bank string) BankCode {
	switch strings.ToUpper(bank) {
	case "BCA":
		return BankBCA
	case "MANDIRI":
		return BankMandiri
	case "BNI":
		return BankBNI
	case "BRI":
		return BankBRI
	case "CIMB":
		return BankCIMB
	default:
		return BankBCA // Default to BCA
	}
}
