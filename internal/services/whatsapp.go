package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"exoticafarms/internal/config"
	"exoticafarms/pkg/whatsapp"
)

// Messenger sends a short text to a phone number.
type Messenger interface {
	Send(ctx context.Context, phone, text string) error
}

// ConsoleMessenger logs the message instead of transmitting it.
type ConsoleMessenger struct{}

func (ConsoleMessenger) Send(ctx context.Context, phone, text string) error {
	log.Printf("[WHATSAPP SIMULATION] To: %s | Content: %s", phone, text)
	return nil
}

// GatewayMessenger delivers through a WhatsApp HTTP gateway.
type GatewayMessenger struct {
	client *whatsapp.Client
}

func NewGatewayMessenger(client *whatsapp.Client) *GatewayMessenger {
	return &GatewayMessenger{client: client}
}

func (g *GatewayMessenger) Send(ctx context.Context, phone, text string) error {
	if err := g.client.SendTextMessage(ctx, phone, text); err != nil {
		return fmt.Errorf("whatsapp gateway: %w", err)
	}
	log.Printf("[WHATSAPP] Message delivered to %s", phone)
	return nil
}

// NewMessenger picks the provider named in cfg.
func NewMessenger(cfg *config.WhatsAppConfig) (Messenger, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "console":
		return ConsoleMessenger{}, nil
	case "gateway":
		return NewGatewayMessenger(whatsapp.NewClient(cfg.APIURL, cfg.Username, cfg.Password, cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported WhatsApp provider: %s", cfg.Provider)
	}
}
