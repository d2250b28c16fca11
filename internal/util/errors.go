package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrListNotFound       = errors.New("vocabulary list not found")
	ErrSessionNotEnded    = errors.New("session has no end timestamp")
)
