package service

import "errors"

// カスタムエラー定義
var (
	ErrRoomNotFound           = errors.New("room not found")
	ErrRoomAlreadyExists      = errors.New("room ID already exists")
	ErrNotHost                = errors.New("forbidden: not room host")
	ErrParticipantNotFound    = errors.New("participant not found")
	ErrRoomIDGenerationFailed = errors.New("failed to generate unique room ID after multiple attempts")
)
