package handler

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

// BodyError reports a malformed request body.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *BodyError) Unwrap() error { return e.Err }

type navigateRequest struct {
	Page string `json:"page" validate:"required,oneof=home register login products cart"`
}

func (req *navigateRequest) decode(d *jx.Decoder, key string) error {
	if key == "page" {
		return decodeString(d, &req.Page)
	}
	return d.Skip()
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *credentialsRequest) decode(d *jx.Decoder, key string) error {
	switch key {
	case "username":
		return decodeString(d, &req.Username)
	case "password":
		return decodeString(d, &req.Password)
	default:
		return d.Skip()
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func (req *addItemRequest) decode(d *jx.Decoder, key string) error {
	switch key {
	case "productId":
		// Catalog IDs may arrive as numbers.
		if d.Next() == jx.Number {
			n, err := d.Num()
			if err != nil {
				return err
			}
			req.ProductID = n.String()
			return nil
		}
		return decodeString(d, &req.ProductID)
	default:
		return d.Skip()
	}
}

type request interface {
	decode(d *jx.Decoder, key string) error
}

// decode reads a JSON object body into req and validates it.
func (h *Handler) decode(r *http.Request, req request) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := jx.Decode(body, 512).Obj(req.decode); err != nil {
		return &BodyError{Err: err}
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.Wrap(err, "validate")
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

func decodeString(d *jx.Decoder, dst *string) error {
	if d.Next() == jx.Null {
		return d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}
