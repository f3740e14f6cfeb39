package payment

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"

	"github.com/fatflowers/paygate/pkg/card"
	"github.com/fatflowers/paygate/pkg/types"
)

const (
	minInstallments = 1
	maxInstallments = 12
)

var (
	minAmount = decimal.RequireFromString("0.01")
	// numeric(12,2)
	maxAmount = decimal.RequireFromString("9999999999.99")

	expirationDatePattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)

	// accepted layouts for timestamps inside paymentDetails; zone-less values are read as UTC
	detailTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999"}
)

// JSONFieldName names struct fields after their json, form or mapstructure tag in validation errors.
func JSONFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "mapstructure"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FieldErrors flattens validator errors into field -> reason. Other errors yield nil.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out[field] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "alpha":
		return "must contain letters only"
	case "numeric":
		return "must contain digits only"
	case "url":
		return "must be a valid URL"
	case "startswith":
		return fmt.Sprintf("must start with %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// share the gin binding tags
	v.SetTagName("binding")
	v.RegisterTagNameFunc(JSONFieldName)
	return &requestValidator{validate: v}
}

func (v *requestValidator) structFields(s any) map[string]string {
	fields := map[string]string{}
	if err := v.validate.Struct(s); err != nil {
		if fe := FieldErrors(err); fe != nil {
			return fe
		}
		fields["request"] = err.Error()
	}
	return fields
}

// validateCreate checks the method independent part of a create request.
func (v *requestValidator) validateCreate(req *CreatePaymentRequest) error {
	if req == nil {
		return validationErr("request body is required", nil)
	}
	fields := v.structFields(req)
	switch {
	case req.Amount.LessThan(minAmount):
		fields["amount"] = "must be at least 0.01"
	case req.Amount.GreaterThan(maxAmount):
		fields["amount"] = "must be at most 9999999999.99"
	case !req.Amount.Equal(req.Amount.Round(2)):
		fields["amount"] = "must have at most 2 decimal places"
	}
	if _, bad := fields["currency"]; !bad && req.Currency != strings.ToUpper(req.Currency) {
		fields["currency"] = "must be an upper-case ISO 4217 code"
	}
	if prefs := req.NotificationPreferences; prefs != nil {
		for _, t := range prefs.NotifyOn {
			if !types.NotificationTrigger(t).Valid() {
				fields["notificationPreferences.notifyOn"] = fmt.Sprintf("unknown trigger %q", t)
			}
		}
	}
	if len(fields) > 0 {
		return validationErr("invalid payment request", fields)
	}
	if !req.PaymentMethod.Valid() {
		return validationErr(fmt.Sprintf("unsupported payment method: %s", req.PaymentMethod),
			map[string]string{"paymentMethod": "must be one of CREDIT_CARD, PIX, QR_CODE"})
	}
	return nil
}

func (v *requestValidator) validateCallback(req *PixCallbackRequest) error {
	if fields := v.structFields(req); len(fields) > 0 {
		return validationErr("invalid PIX callback", fields)
	}
	return nil
}

func detailTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(reflect.ValueOf(data).String())
	for _, layout := range detailTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as a timestamp", s)
}

// integralHook rejects fractional numbers bound for integer fields instead of truncating them.
func integralHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("expected a whole number, got %v", f)
	}
	return data, nil
}

// decodeDetails maps the free-form paymentDetails payload onto out.
func decodeDetails(in map[string]any, out any) error {
	if in == nil {
		return validationErr("invalid payment details", map[string]string{"paymentDetails": "is required"})
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(detailTimeHook, integralHook),
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to build details decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return validationErr("invalid payment details", map[string]string{"paymentDetails": err.Error()})
	}
	return nil
}

func (v *requestValidator) detailFields(details any) error {
	if fields := v.structFields(details); len(fields) > 0 {
		prefixed := make(map[string]string, len(fields))
		for k, r := range fields {
			prefixed["paymentDetails."+k] = r
		}
		return validationErr("invalid payment details", prefixed)
	}
	return nil
}

// validateCreditCard decodes a CREDIT_CARD payload and applies the card rules at now.
func (v *requestValidator) validateCreditCard(in map[string]any, now time.Time) (*CreditCardDetails, error) {
	d := &CreditCardDetails{}
	if err := decodeDetails(in, d); err != nil {
		return nil, err
	}
	if err := v.detailFields(d); err != nil {
		return nil, err
	}
	if !card.IsValidNumber(d.CardNumber) {
		return nil, invalidCardErr("paymentDetails.cardNumber", "card number must be 16 digits and pass the Luhn check")
	}
	if err := checkExpirationDate(d.ExpirationDate, now); err != nil {
		return nil, err
	}
	if d.Installments == nil {
		n := minInstallments
		d.Installments = &n
	}
	if *d.Installments < minInstallments || *d.Installments > maxInstallments {
		return nil, validationErr("installments out of range", map[string]string{
			"paymentDetails.installments": fmt.Sprintf("must be between %d and %d", minInstallments, maxInstallments),
		})
	}
	return d, nil
}

// checkExpirationDate accepts MM/YY; a card stays valid through its expiry month.
func checkExpirationDate(exp string, now time.Time) error {
	m := expirationDatePattern.FindStringSubmatch(exp)
	if m == nil {
		return invalidCardErr("paymentDetails.expirationDate", "expiration date must be in MM/YY format")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000
	if year < now.Year() || (year == now.Year() && time.Month(month) < now.Month()) {
		return invalidCardErr("paymentDetails.expirationDate", "card has expired")
	}
	return nil
}

// validatePix decodes a PIX payload; an explicit expiresAt must be after now.
func (v *requestValidator) validatePix(in map[string]any, now time.Time) (*PixDetails, error) {
	d := &PixDetails{}
	if err := decodeDetails(in, d); err != nil {
		return nil, err
	}
	if err := v.detailFields(d); err != nil {
		return nil, err
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.After(now) {
		return nil, validationErr("PIX expiration must be in the future", map[string]string{
			"paymentDetails.expiresAt": "must be in the future",
		})
	}
	return d, nil
}
