package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"storefront/internal/core/model/response"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())
	Validator.RegisterTagNameFunc(jsonFieldName)

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	Validator.RegisterTranslation("max", Translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} is too long (maximum is {1} characters)", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})

	Validator.RegisterTranslation("numeric", Translator, func(ut ut.Translator) error {
		return ut.Add("numeric", "{0} is not a number", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("numeric", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("uuid", Translator, func(ut ut.Translator) error {
		return ut.Add("uuid", "{0} is not a valid identifier", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("uuid", getFieldName(fe.Field()))
		return t
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

	if name == "-" {
		return ""
	}

	if name == "" {
		name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
	}

	if name == "" {
		return field.Name
	}

	return name
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"email":                 "Email",
		"password":              "Password",
		"password_confirmation": "Password confirmation",
		"first_name":            "First name",
		"last_name":             "Last name",
		"name":                  "Name",
		"description":           "Description",
		"price":                 "Price",
		"quantity":              "Quantity",
		"category_id":           "Category",
		"limit":                 "Limit",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

// FormatValidationErrors turns validator errors into response entries.
// Anything else (malformed JSON, wrong types) becomes a single body error.
func FormatValidationErrors(err error) []response.ValidationError {
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		if err == nil {
			return nil
		}

		return []response.ValidationError{{Field: "body", Message: err.Error()}}
	}

	result := make([]response.ValidationError, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		result = append(result, response.ValidationError{
			Field:   fieldError.Field(),
			Message: fieldError.Translate(Translator),
		})
	}

	return result
}
