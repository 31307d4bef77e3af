package codec

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/zerr"
)

type decoder struct {
	interner *Interner
}

// fieldFunc consumes the value of one field and reports how many bytes it used. Returning
// zero leaves the field to be skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walk visits every field of a message. Unknown fields are skipped.
func walk(b []byte, visit fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return corrupt(protowire.ParseError(n))
		}
		b = b[n:]

		m, err := visit(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return corrupt(protowire.ParseError(m))
			}
		}
		b = b[m:]
	}
	return nil
}

func (d *decoder) labelResult(b []byte) (*domain.LabelResult, error) {
	r := &domain.LabelResult{
		ConfigOwner: make(map[int]string),
		OriginalIDs: make(map[int]int),
	}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldLabelResultLabel:
			return d.message(typ, b, func(v []byte) (err error) {
				r.Label, err = d.label(v)
				return err
			})
		case fieldLabelResultConfigurations:
			return d.message(typ, b, func(v []byte) error {
				cfg, err := d.configuration(v)
				r.Configurations = append(r.Configurations, cfg)
				return err
			})
		case fieldLabelResultResults:
			return d.message(typ, b, func(v []byte) error {
				res, err := d.result(v)
				r.Results = append(r.Results, res)
				return err
			})
		case fieldLabelResultConfigOwner:
			return d.message(typ, b, func(v []byte) error {
				var id int
				var owner string
				err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case fieldEntryKey:
						return d.int(typ, b, &id)
					case fieldEntryValue:
						return d.string(typ, b, &owner)
					}
					return 0, nil
				})
				r.ConfigOwner[id] = owner
				return err
			})
		case fieldLabelResultOriginalIDs:
			return d.message(typ, b, func(v []byte) error {
				var id, orig int
				err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case fieldEntryKey:
						return d.int(typ, b, &id)
					case fieldEntryValue:
						return d.int(typ, b, &orig)
					}
					return 0, nil
				})
				r.OriginalIDs[id] = orig
				return err
			})
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *decoder) label(b []byte) (domain.Label, error) {
	var l domain.Label
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldLabelWorkspace:
			return d.string(typ, b, &l.Workspace)
		case fieldLabelPackage:
			return d.string(typ, b, &l.Package)
		case fieldLabelName:
			return d.string(typ, b, &l.Name)
		}
		return 0, nil
	})
	return l, err
}

func (d *decoder) configuration(b []byte) (*domain.Configuration, error) {
	c := &domain.Configuration{GlobalProperties: make(map[string]string)}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldConfigID:
			return d.int(typ, b, &c.ID)
		case fieldConfigProjectPath:
			return d.string(typ, b, &c.ProjectPath)
		case fieldConfigGlobalProperties:
			return d.entry(typ, b, c.GlobalProperties)
		case fieldConfigToolsVersion:
			return d.string(typ, b, &c.ToolsVersion)
		case fieldConfigTargetNames:
			var name string
			n, err := d.string(typ, b, &name)
			c.TargetNames = append(c.TargetNames, name)
			return n, err
		case fieldConfigExplicitlyLoaded:
			return d.bool(typ, b, &c.ExplicitlyLoaded)
		}
		return 0, nil
	})
	return c, err
}

func (d *decoder) result(b []byte) (*domain.Result, error) {
	r := domain.NewResult(domain.InvalidConfigurationID)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldResultConfigID:
			return d.int(typ, b, &r.ConfigurationID)
		case fieldResultTargets:
			return d.message(typ, b, func(v []byte) error {
				var name string
				tr := &domain.TargetResult{}
				err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case fieldEntryKey:
						return d.string(typ, b, &name)
					case fieldEntryValue:
						return d.message(typ, b, func(v []byte) (err error) {
							tr, err = d.targetResult(v)
							return err
						})
					}
					return 0, nil
				})
				r.AddTarget(name, tr)
				return err
			})
		case fieldResultError:
			return d.string(typ, b, &r.Error)
		}
		return 0, nil
	})
	return r, err
}

func (d *decoder) targetResult(b []byte) (*domain.TargetResult, error) {
	tr := &domain.TargetResult{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldTargetCode:
			var code uint64
			n, err := d.uint(typ, b, &code)
			tr.Code = domain.ResultCode(code)
			return n, err
		case fieldTargetItems:
			return d.message(typ, b, func(v []byte) error {
				item, err := d.item(v)
				tr.Items = append(tr.Items, item)
				return err
			})
		case fieldTargetMessages:
			var msg string
			n, err := d.string(typ, b, &msg)
			tr.Messages = append(tr.Messages, msg)
			return n, err
		}
		return 0, nil
	})
	return tr, err
}

func (d *decoder) item(b []byte) (*domain.Item, error) {
	item := &domain.Item{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldItemSpec:
			return d.string(typ, b, &item.Spec)
		case fieldItemMetadata:
			if item.Metadata == nil {
				item.Metadata = make(map[string]string)
			}
			return d.entry(typ, b, item.Metadata)
		}
		return 0, nil
	})
	return item, err
}

func (d *decoder) project(b []byte) (*domain.ProjectInstance, error) {
	p := &domain.ProjectInstance{Properties: make(map[string]string)}
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldProjectFullPath:
			return d.string(typ, b, &p.FullPath)
		case fieldProjectProperties:
			return d.entry(typ, b, p.Properties)
		case fieldProjectItems:
			return d.message(typ, b, func(v []byte) error {
				var pi domain.ProjectItem
				err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case fieldProjectItemType:
						return d.string(typ, b, &pi.Type)
					case fieldProjectItemItem:
						return d.message(typ, b, func(v []byte) (err error) {
							pi.Item, err = d.item(v)
							return err
						})
					}
					return 0, nil
				})
				if pi.Item == nil {
					pi.Item = &domain.Item{}
				}
				p.Items = append(p.Items, pi)
				return err
			})
		}
		return 0, nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// message consumes a length-delimited field and passes its payload to fn.
func (d *decoder) message(typ protowire.Type, b []byte, fn func([]byte) error) (int, error) {
	if err := expectType(typ, protowire.BytesType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, corrupt(protowire.ParseError(n))
	}
	return n, fn(v)
}

// entry consumes one key/value entry message into m.
func (d *decoder) entry(typ protowire.Type, b []byte, m map[string]string) (int, error) {
	return d.message(typ, b, func(v []byte) error {
		var key, value string
		err := walk(v, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case fieldEntryKey:
				return d.string(typ, b, &key)
			case fieldEntryValue:
				return d.string(typ, b, &value)
			}
			return 0, nil
		})
		m[key] = value
		return err
	})
}

func (d *decoder) string(typ protowire.Type, b []byte, out *string) (int, error) {
	return d.message(typ, b, func(v []byte) error {
		*out = d.interner.Intern(v)
		return nil
	})
}

func (d *decoder) uint(typ protowire.Type, b []byte, out *uint64) (int, error) {
	if err := expectType(typ, protowire.VarintType); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, corrupt(protowire.ParseError(n))
	}
	*out = v
	return n, nil
}

func (d *decoder) int(typ protowire.Type, b []byte, out *int) (int, error) {
	var v uint64
	n, err := d.uint(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*out = int(protowire.DecodeZigZag(v))
	return n, nil
}

func (d *decoder) bool(typ protowire.Type, b []byte, out *bool) (int, error) {
	var v uint64
	n, err := d.uint(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*out = protowire.DecodeBool(v)
	return n, nil
}

func expectType(got, want protowire.Type) error {
	if got == want {
		return nil
	}
	err := zerr.Wrap(domain.ErrCorruptArtifact, "unexpected wire type")
	err = zerr.With(err, "expected_type", int(want))
	return zerr.With(err, "found_type", int(got))
}

func corrupt(cause error) error {
	return zerr.Wrap(errors.Join(domain.ErrCorruptArtifact, cause), "decode artifact")
}
