package validators

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{8,20}$`)

// New monta o validator usado pelos casos de uso, com as tags extras:
//
//	phone        dígitos, espaços, parênteses e hífen, com + opcional
//	email_domain domínio resolvível; só checa quando checkEmailDomain
func New(checkEmailDomain bool) *validator.Validate {
	if !checkEmailDomain {
		return build(nil)
	}
	return build(NewEmailDomainChecker())
}

func build(domains *EmailDomainChecker) *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidationCtx("email_domain", func(ctx context.Context, fl validator.FieldLevel) bool {
		email := fl.Field().String()
		if domains == nil || email == "" {
			return true
		}
		return domains.Check(ctx, email)
	})

	return v
}
