package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/configs"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"github.com/google/uuid"
)

// MoMoService talks to the MoMo v2 gateway. Requests carry an
// HMAC-SHA256 signature over the canonical alphabetical field string;
// IPN callbacks are verified the same way.
type MoMoService struct {
	config        configs.MoMoConfig
	httpClient    *http.Client
	paymentRepo   repositories.PaymentRepository
	orderRepo     repositories.OrderRepository
	kafkaProducer *messaging.KafkaProducer
	kafkaBrokers  []string
}

func NewMoMoService(
	config configs.MoMoConfig,
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
	kafkaProducer *messaging.KafkaProducer,
	kafkaBrokers []string,
) *MoMoService {
	return &MoMoService{
		config:        config,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		paymentRepo:   paymentRepo,
		orderRepo:     orderRepo,
		kafkaProducer: kafkaProducer,
		kafkaBrokers:  kafkaBrokers,
	}
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayURL       string `json:"payUrl"`
	ResponseTime int64  `json:"responseTime"`
}

// IPNPayload is what MoMo posts back once the buyer finishes (or
// abandons) the wallet flow.
type IPNPayload struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// CreatePayment creates a MoMo payment for the order and returns the
// redirect URL. Implements the checkout service's PaymentGateway.
func (s *MoMoService) CreatePayment(ctx context.Context, order *models.Order) (string, error) {
	requestID := uuid.New().String()
	amount := int64(order.TotalPrice)
	orderInfo := "Thanh toan don hang " + order.ID.String()

	rawSignature := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		s.config.AccessKey, amount, "", s.config.IPNURL, order.ID.String(), orderInfo,
		s.config.PartnerCode, s.config.RedirectURL, requestID, "captureWallet",
	)

	req := momoCreateRequest{
		PartnerCode: s.config.PartnerCode,
		AccessKey:   s.config.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     order.ID.String(),
		OrderInfo:   orderInfo,
		RedirectURL: s.config.RedirectURL,
		IPNURL:      s.config.IPNURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Lang:        "vi",
		Signature:   s.sign(rawSignature),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo request failed: %v", err)
	}
	defer resp.Body.Close()

	var result momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse momo response: %v", err)
	}

	if result.ResultCode != 0 {
		return "", fmt.Errorf("momo rejected payment: %s", result.Message)
	}

	return result.PayURL, nil
}

// HandleIPN settles the payment a gateway callback refers to. A result
// code of 0 means paid; anything else fails the payment and cancels
// the order.
func (s *MoMoService) HandleIPN(ctx context.Context, payload *IPNPayload) error {
	if !s.verifyIPNSignature(payload) {
		return fmt.Errorf("invalid IPN signature")
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order ID in IPN: %v", err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found for IPN %s: %v", payload.OrderID, err)
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("payment not found for order %s: %v", payload.OrderID, err)
	}

	if payment.Status != "pending" {
		// Gateway retries its callbacks; settling twice is a no-op.
		return nil
	}

	eventType := "payment.succeeded"
	if payload.ResultCode == 0 {
		payment.Status = "success"
		payment.TransactionID = strconv.FormatInt(payload.TransID, 10)
		order.Status = "pending"
	} else {
		payment.Status = "failed"
		payment.Metadata = models.JSONB{"result_code": payload.ResultCode, "message": payload.Message}
		order.Status = "cancelled"
		eventType = "payment.failed"
	}
	payment.UpdatedAt = time.Now()
	order.UpdatedAt = time.Now()

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return fmt.Errorf("failed to update payment: %v", err)
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update order: %v", err)
	}

	event := messaging.PaymentEvent{
		Type:          eventType,
		PaymentID:     payment.ID.String(),
		OrderID:       order.ID.String(),
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
	}
	if err := s.kafkaProducer.SendMessage("payments", s.kafkaBrokers, payment.ID.String(), event); err != nil {
		log.Printf("Failed to publish payment event for %s: %v", payment.ID, err)
	}

	return nil
}

func (s *MoMoService) verifyIPNSignature(p *IPNPayload) bool {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		s.config.AccessKey, p.Amount, p.ExtraData, p.Message, p.OrderID, p.OrderInfo,
		p.OrderType, p.PartnerCode, p.PayType, p.RequestID, p.ResponseTime, p.ResultCode, p.TransID,
	)
	expected := s.sign(raw)
	return hmac.Equal([]byte(expected), []byte(p.Signature))
}

func (s *MoMoService) sign(raw string) string {
	h := hmac.New(sha256.New, []byte(s.config.SecretKey))
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
