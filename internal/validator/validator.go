package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once     sync.Once
	validate *govalidator.Validate
	trans    ut.Translator
)

// engine lazily builds the entity validator with English translations.
// Field names in messages come from the form tag, then the json tag.
func engine() *govalidator.Validate {
	once.Do(func() {
		validate = govalidator.New(govalidator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, trans)
	})
	return validate
}

// Setup warms the validator. Call once during application startup.
func Setup() {
	engine()
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
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

// Struct validates v against its `validate` tags and returns a map of
// field path → human-readable message, or nil when v is valid.
func Struct(v interface{}) map[string]string {
	if err := engine().Struct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// TranslateErrors takes a validation error and returns a map of field
// path → message. Nested fields keep their index, e.g. "academics[0].level".
// Anything that is not a validation error lands under "detail".
func TranslateErrors(err error) map[string]string {
	engine()
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// fieldPath strips the root struct name from the namespace.
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// BindForm binds an urlencoded or multipart form body into dst.
// Returns nil on success or a translated field error map on failure.
func BindForm(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBind(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
