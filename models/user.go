package models

import (
	"prereview/codec"
	"prereview/codec/decode"
)

// User ist der anonyme Benutzer einer Session.
type User struct {
	Name string `json:"name"`
}

var UserC = codec.Make(
	decode.Struct(func(r *decode.Record) User {
		return User{Name: decode.Field(r, "name", decode.String)}
	}),
	func(u User) any {
		return map[string]any{"name": u.Name}
	},
)
