// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"goq3bsp/math/vec"
)

type KeyValue struct {
	Key   string
	Value string
}

// Entity is one record of the entities lump. Pairs keep the file order,
// a repeated key returns the first value.
type Entity struct {
	pairs []KeyValue
}

func (e *Entity) Value(key string) (string, bool) {
	for _, p := range e.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (e *Entity) ClassName() (string, bool) {
	return e.Value("classname")
}

func (e *Entity) Pairs() []KeyValue {
	return e.pairs
}

// Origin returns the "origin" of the entity in engine axes.
func (e *Entity) Origin() (vec.Vec3, bool) {
	v, ok := e.Value("origin")
	if !ok {
		return vec.Vec3{}, false
	}
	f := strings.Fields(v)
	if len(f) != 3 {
		return vec.Vec3{}, false
	}
	var o vec.Vec3
	for i, s := range f {
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return vec.Vec3{}, false
		}
		o[i] = float32(x)
	}
	return vec.ZUpToYUp(o), true
}

// Proto converts the entity into a struct value. Repeated keys keep their
// first value.
func (e *Entity) Proto() *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(e.pairs))}
	for _, p := range e.pairs {
		if _, ok := s.Fields[p.Key]; ok {
			continue
		}
		s.Fields[p.Key] = structpb.NewStringValue(p.Value)
	}
	return s
}

func unquote(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
}

/*
ParseEntities parses the entities lump. The data looks like:

	{
	"classname" "worldspawn"
	"message" "hello"
	}
	{
	"classname" "info_player_deathmatch"
	"origin" "0 0 24" // a comment
	}
*/
func ParseEntities(data []byte) ([]*Entity, error) {
	// the lump is NUL terminated
	s := strings.TrimRight(string(data), "\x00")
	l := lex(s)
	var es []*Entity
	var cur *Entity
	var key *item
	for {
		i := l.nextItem()
		switch i.typ {
		case itemEOF:
			if cur != nil {
				return nil, errors.Wrapf(ErrEntitySyntax, "line %d: missing }", i.line)
			}
			return es, nil
		case itemError:
			return nil, errors.Wrap(ErrEntitySyntax, i.val)
		case itemOpen:
			if cur != nil {
				return nil, errors.Wrapf(ErrEntitySyntax, "line %d: nested {", i.line)
			}
			cur = &Entity{}
		case itemClose:
			if cur == nil {
				return nil, errors.Wrapf(ErrEntitySyntax, "line %d: } without {", i.line)
			}
			if key != nil {
				return nil, errors.Wrapf(ErrEntitySyntax, "line %d: key %s without value", i.line, key)
			}
			es = append(es, cur)
			cur = nil
		case itemString, itemWord:
			if cur == nil {
				return nil, errors.Wrapf(ErrEntitySyntax, "line %d: %s outside of entity", i.line, i)
			}
			if key == nil {
				k := i
				key = &k
				continue
			}
			cur.pairs = append(cur.pairs, KeyValue{unquote(key.val), unquote(i.val)})
			key = nil
		}
	}
}
