// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles role tokens and PIN login.

The caller's role (public, admin, judgeA, judgeB) is persisted in a cookie
as a signed token:

	token := auth.SignRole(models.RoleJudgeA, cfg.RoleTokenSalt)
	role, err := auth.VerifyRole(token, cfg.RoleTokenSalt)

Login compares a user-entered PIN against the three configured role
secrets. The comparison is trim-then-exact and constant-time; see
RoleForPin.
*/
package auth
