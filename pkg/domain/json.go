package domain

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Decode decodes ScanRequest from json. Unknown fields are ignored and a null
// url leaves URL empty.
func (s *ScanRequest) Decode(d *jx.Decoder) error {
	if s == nil {
		return errors.New("invalid: unable to decode ScanRequest to nil")
	}

	if err := d.ObjBytes(func(d *jx.Decoder, k []byte) error {
		switch string(k) {
		case "url":
			switch tt := d.Next(); tt {
			case jx.String:
				v, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "decode field \"url\"")
				}
				s.URL = v
			case jx.Null:
				if err := d.Null(); err != nil {
					return errors.Wrap(err, "decode field \"url\"")
				}
			default:
				return errors.Errorf("decode field \"url\": unexpected %s", tt)
			}
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return errors.Wrap(err, "decode ScanRequest")
	}

	return nil
}

// Encode implements json.Marshaler.
func (s *ScanResult) Encode(e *jx.Encoder) {
	e.ObjStart()
	s.EncodeFields(e)
	e.ObjEnd()
}

// EncodeFields encodes the result fields into an already opened object so
// callers can append fields of their own. An absent theme name is encoded as
// null and evidence is always an array.
func (s *ScanResult) EncodeFields(e *jx.Encoder) {
	e.FieldStart("isShopify")
	e.Bool(s.IsPlatformMatch)

	e.FieldStart("themeName")
	if s.HasThemeName() {
		e.Str(s.ThemeName)
	} else {
		e.Null()
	}

	e.FieldStart("evidence")
	e.ArrStart()
	for _, ev := range s.Evidence {
		e.Str(ev)
	}
	e.ArrEnd()
}
