package validators

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/validation"
	"github.com/gorilla/schema"
)

const maxBodyBytes = 1 << 20

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

// DecodeRequest picks the form or JSON decoder from the Content-Type header.
func DecodeRequest(r *http.Request, dest any) error {
	if isForm(r.Header.Get("Content-Type")) {
		return DecodeForm(r, dest)
	}
	return DecodeJSONBody(r, dest)
}

func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}
	return Struct(dest)
}

// DecodeForm reads an urlencoded body into dest using its schema tags.
func DecodeForm(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := formDecoder.Decode(dest, r.PostForm); err != nil {
		return formatDecodeErrors(err)
	}
	return Struct(dest)
}

// Struct runs the validate tags on an already decoded value.
func Struct(dest any) error {
	return validation.Struct(dest)
}

func isForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

func formatDecodeErrors(err error) *pkgerrors.Error {
	details := map[string]string{}
	var multi schema.MultiError
	if errors.As(err, &multi) {
		for key, fieldErr := range multi {
			var conv schema.ConversionError
			if errors.As(fieldErr, &conv) {
				details[conv.Key] = "is invalid"
				continue
			}
			details[key] = "is invalid"
		}
	}
	if len(details) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").WithDetails(details)
}
