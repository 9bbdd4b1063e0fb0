package schema

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// The upstream API dump is a single JSON document listing every class with
// its members and superclass. Only the fields needed for flattening are
// decoded.

type apiDump struct {
	Classes []apiClass `json:"Classes"`
}

type apiClass struct {
	Name       string      `json:"Name"`
	Superclass string      `json:"Superclass"`
	Members    []apiMember `json:"Members"`
	Tags       []string    `json:"Tags"`
}

type apiMember struct {
	MemberType string       `json:"MemberType"`
	Name       string       `json:"Name"`
	Tags       []string     `json:"Tags"`
	ValueType  apiValueType `json:"ValueType"`
}

type apiValueType struct {
	Category string `json:"Category"`
	Name     string `json:"Name"`
}

// rootSuperclass is the sentinel the dump uses for the inheritance root.
const rootSuperclass = "<ROOT>"

// ParseDump decodes an API dump and flattens every class's inheritance
// chain into self-contained entries.
func ParseDump(data []byte) (map[string]Entry, error) {
	var dump apiDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, errors.Errorf("decoding api dump: %w", err)
	}
	return flatten(&dump), nil
}

type flatMembers struct {
	properties []Member
	events     []Member
}

// flatten merges superclass members into every class using an explicit
// worklist: for each class the unprocessed ancestor chain is pushed onto a
// stack and popped root-first, so a parent's flattened lists are always
// cached before any child needs them. Deep chains cost stack entries, not
// call frames.
func flatten(dump *apiDump) map[string]Entry {
	byName := make(map[string]*apiClass, len(dump.Classes))
	for i := range dump.Classes {
		byName[dump.Classes[i].Name] = &dump.Classes[i]
	}

	flattened := make(map[string]flatMembers, len(dump.Classes))
	entries := make(map[string]Entry, len(dump.Classes))
	var stack []*apiClass

	for i := range dump.Classes {
		class := &dump.Classes[i]
		if _, done := flattened[class.Name]; done {
			continue
		}
		stack = append(stack, class)

		parent := class.Superclass
		for parent != "" && parent != rootSuperclass {
			if _, done := flattened[parent]; done {
				break
			}
			parentClass, ok := byName[parent]
			if !ok {
				break
			}
			stack = append(stack, parentClass)
			parent = parentClass.Superclass
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			merged := ownMembers(top)
			if parentFlat, ok := flattened[top.Superclass]; ok {
				merged.properties = append(merged.properties, parentFlat.properties...)
				merged.events = append(merged.events, parentFlat.events...)
			}

			flattened[top.Name] = merged
			entries[top.Name] = Entry{
				Name:       top.Name,
				Superclass: top.Superclass,
				Properties: merged.properties,
				Events:     merged.events,
			}
		}
	}

	return entries
}

// ownMembers collects a class's directly declared completion-relevant
// members: deprecated and read-only ones are of no use at a write site.
func ownMembers(class *apiClass) flatMembers {
	var flat flatMembers
	for _, member := range class.Members {
		if hasTag(member.Tags, "Deprecated") || hasTag(member.Tags, "ReadOnly") {
			continue
		}
		entry := Member{Name: member.Name, Type: member.ValueType.Name}
		switch member.MemberType {
		case "Property":
			flat.properties = append(flat.properties, entry)
		case "Event":
			flat.events = append(flat.events, entry)
		}
	}
	return flat
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
