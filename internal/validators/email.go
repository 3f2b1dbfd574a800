package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// DomainResolver é o recorte de *net.Resolver usado na checagem.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomainChecker aceita o e-mail quando o domínio tem MX ou, na
// falta dele, algum endereço. Falha de DNS conta como domínio inválido.
type EmailDomainChecker struct {
	Resolver DomainResolver
	Timeout  time.Duration
}

func NewEmailDomainChecker() *EmailDomainChecker {
	return &EmailDomainChecker{Resolver: net.DefaultResolver, Timeout: 3 * time.Second}
}

func (c *EmailDomainChecker) Check(ctx context.Context, email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if mx, err := c.Resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := c.Resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(email[at+1:]), true
}
