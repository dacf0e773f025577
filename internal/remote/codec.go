package remote

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/product"
)

// decodeProducts reads a JSON array of {id, name, description, price}.
// IDs and prices are accepted both as numbers and as strings.
func decodeProducts(d *jx.Decoder) ([]product.Product, error) {
	products := make([]product.Product, 0)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			p.ID, err = decodeScalar(d)
		case "name":
			p.Name, err = decodeOptString(d)
		case "description":
			p.Description, err = decodeOptString(d)
		case "price":
			p.Price, err = decodeDecimal(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return p, err
}

// decodeScalar returns a string or number value as text.
func decodeScalar(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return string(n), nil
	default:
		return "", errors.Errorf("unexpected %s", d.Next())
	}
}

func decodeOptString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	if d.Next() == jx.Null {
		return decimal.Zero, d.Null()
	}
	s, err := decodeScalar(d)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, errors.Errorf("negative price %s", v)
	}
	return v, nil
}

// decodeMessage reads the {message} body of register and login answers.
func decodeMessage(d *jx.Decoder) (string, error) {
	var (
		msg   string
		found bool
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "message" {
			return d.Skip()
		}
		if d.Next() != jx.String {
			return errors.Errorf("message is %s, not a string", d.Next())
		}
		found = true
		var err error
		msg, err = d.Str()
		return err
	}); err != nil {
		return "", errors.Wrap(err, "decode message")
	}
	if !found {
		return "", errors.New("message missing")
	}
	return msg, nil
}

func encodeCredentials(c auth.Credentials) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(c.Username)
	e.FieldStart("password")
	e.Str(c.Password)
	e.ObjEnd()
	return e.Bytes()
}
