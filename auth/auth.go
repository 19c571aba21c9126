// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/models"
)

var (
	ErrInvalidPin   = errors.New("invalid PIN")
	ErrInvalidToken = errors.New("invalid role token")
)

// SignRole produces the persisted role token: "<role>.<mac>" where mac is
// an HMAC-SHA256 over the role name keyed by the configured salt. The role
// stays readable in the token; the MAC just stops clients minting their own.
func SignRole(role, salt string) string {
	return role + "." + roleMAC(role, salt)
}

// VerifyRole checks a role token and returns the role it names.
func VerifyRole(token, salt string) (string, error) {
	i := strings.LastIndexByte(token, '.')
	if i < 0 {
		return "", ErrInvalidToken
	}
	role, mac := token[:i], token[i+1:]
	if !models.ValidRole(role) {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(mac), []byte(roleMAC(role, salt))) {
		return "", ErrInvalidToken
	}
	return role, nil
}

func roleMAC(role, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(role))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// RoleForPin matches a user-entered secret against the three configured
// PINs. Comparison policy: trim surrounding whitespace, then exact
// constant-time match. No case folding and no inner-whitespace collapsing.
func RoleForPin(pin string, cfg cliparse.Config) (string, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", ErrInvalidPin
	}
	for _, cand := range []struct {
		role string
		pin  string
	}{
		{models.RoleAdmin, cfg.AdminPin},
		{models.RoleJudgeA, cfg.JudgeAPin},
		{models.RoleJudgeB, cfg.JudgeBPin},
	} {
		if subtle.ConstantTimeCompare([]byte(pin), []byte(strings.TrimSpace(cand.pin))) == 1 {
			return cand.role, nil
		}
	}
	return "", ErrInvalidPin
}
