package restbind

import (
	"github.com/starius/restbind/errors"
)

// Table maps method identities to descriptors. It is read-only after
// construction and may be shared between goroutines.
type Table struct {
	byID        map[MethodID]*Descriptor
	descriptors []*Descriptor
}

// NewTable parses all methods of svc and of the services it embeds.
// Embedded services are parsed with their own bindings. Two methods with
// the same identity is an error.
func NewTable(p *Parser, svc *ServiceBinding) (*Table, error) {
	t := &Table{
		byID: make(map[MethodID]*Descriptor),
	}
	if err := t.add(p, svc, make(map[*ServiceBinding]bool)); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) add(p *Parser, svc *ServiceBinding, visited map[*ServiceBinding]bool) error {
	if svc == nil {
		return errors.Configurationf("nil service binding")
	}
	if visited[svc] {
		// Diamond embedding: methods were added already.
		return nil
	}
	visited[svc] = true

	for i := range svc.Methods {
		d, err := p.Parse(svc, &svc.Methods[i])
		if err != nil {
			return err
		}
		if prev, has := t.byID[d.ID()]; has {
			return errors.Configurationf("method %s of %s is already declared in %s", d.ID(), svc.Name, prev.Service())
		}
		t.byID[d.ID()] = d
		t.descriptors = append(t.descriptors, d)
	}
	for _, embed := range svc.Embeds {
		if err := t.add(p, embed, visited); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the descriptor of method id.
func (t *Table) Lookup(id MethodID) (*Descriptor, error) {
	d, has := t.byID[id]
	if !has {
		return nil, errors.Dispatchf("no registered method %s", id)
	}
	return d, nil
}

// Descriptors returns all descriptors in declaration order.
func (t *Table) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), t.descriptors...)
}
