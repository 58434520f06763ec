package handler

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	frTranslations "github.com/go-playground/validator/v10/translations/fr"
)

var trans ut.Translator

// InitTrans registers the validator translator for the given locale.
// Unknown locales fall back to English.
func InitTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	enLoc := en.New()
	frLoc := fr.New()
	uni := ut.New(enLoc, enLoc, frLoc)

	var found bool
	trans, found = uni.GetTranslator(locale)
	if !found {
		trans, _ = uni.GetTranslator("en")
	}

	switch locale {
	case "fr":
		return frTranslations.RegisterDefaultTranslations(v, trans)
	default:
		return enTranslations.RegisterDefaultTranslations(v, trans)
	}
}

// TranslateError turns validator errors into one readable message.
func TranslateError(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, msg := range errs.Translate(trans) {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
