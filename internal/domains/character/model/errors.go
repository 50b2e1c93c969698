package model

import "errors"

var ErrCharacterNotFound = errors.New("character not found")
