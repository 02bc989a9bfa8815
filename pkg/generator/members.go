package generator

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/cmmoran/komodelgen/pkg/model"
)

// memberForm selects how a member line is rendered.
type memberForm int

const (
	formDefault        memberForm = iota // name: T;  (host dialect default)
	formPlain                            // name: T;  /  name: T[];
	formObservable                       // name: Observable<T> = observable(null);
	formObservableSpec                   // name: Observable<T>;
)

// includedMembers returns the members output selects, properties before
// fields, in declared order. Ignored members are left to the caller.
func includedMembers(c *model.Class, output Output) []*model.Member {
	members := make([]*model.Member, 0, len(c.Properties)+len(c.Fields))
	if output.Has(OutputProperties) {
		members = append(members, c.Properties...)
	}
	if output.Has(OutputFields) {
		members = append(members, c.Fields...)
	}
	return members
}

// appendMembers renders one line per included, non-ignored member of c.
func (g *Generator) appendMembers(sb *scriptBuilder, c *model.Class, output Output, form memberForm) error {
	sb.Indent()
	defer sb.Dedent()

	for _, m := range includedMembers(c, output) {
		if m == nil || m.Ignored {
			continue
		}
		line, err := g.memberLine(m, form)
		if err != nil {
			return errors.Wrapf(err, "member %s.%s", c.FullName(), m.Name)
		}
		sb.AppendLineIndented(line)
	}
	return nil
}

func (g *Generator) memberLine(m *model.Member, form memberForm) (string, error) {
	propType, err := g.format.propertyType(m.Type)
	if err != nil {
		return "", err
	}
	name := g.opts.MemberName(m)
	if form == formDefault {
		return name + ": " + propType + ";", nil
	}

	w := g.opts.Wrappers
	if m.Type.IsRepeated() {
		// the wrapper supplies the many-ness
		propType = strings.TrimSuffix(propType, arraySuffix)
		switch form {
		case formObservable:
			return name + ": " + w.ArrayType + "<" + propType + "> = " + w.ArrayFactory + "([]);", nil
		case formObservableSpec:
			return name + ": " + w.ArrayType + "<" + propType + ">;", nil
		default:
			return name + ": " + propType + arraySuffix + ";", nil
		}
	}

	switch form {
	case formObservable:
		return name + ": " + w.Type + "<" + propType + "> = " + w.Factory + "(null);", nil
	case formObservableSpec:
		return name + ": " + w.Type + "<" + propType + ">;", nil
	default:
		return name + ": " + propType + ";", nil
	}
}
