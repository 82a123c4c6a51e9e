package game

import "errors"

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerExists     = errors.New("player already exists")
	ErrRoomNotFound     = errors.New("room not found")
	ErrTemplateNotFound = errors.New("template not found")
)
