package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey   = "session_id" // string
	SessionCookieName = "sessionid"
)

type SessionCookieConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

// 訪問者ごとのセッションIDをcookieで持つ。
// cookieはHS256で署名したJWT（中身はsidだけ）。改ざん・期限切れなら新しいIDを振る。
// 残りがTTLの半分を切ったら同じsidで署名し直す（使っている間はカートが切れない）。
func SessionCookie(cfg SessionCookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			sid := ""
			var exp time.Time
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				sid, exp, _ = parseSessionToken(ck.Value, cfg.Secret)
			}

			switch {
			case sid == "":
				sid = uuid.NewString()
				if err := issueSessionCookie(c, cfg, sid, now); err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
			case exp.Sub(now) < cfg.TTL/2:
				if err := issueSessionCookie(c, cfg, sid, now); err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
			}

			//contextへ保存
			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionID はSessionCookieが入れたIDを取り出す。
func SessionID(c echo.Context) string {
	sid, _ := c.Get(CtxSessionIDKey).(string)
	return sid
}

func issueSessionCookie(c echo.Context, cfg SessionCookieConfig, sid string, now time.Time) error {
	token, err := signSessionToken(sid, cfg.Secret, now, cfg.TTL)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(cfg.TTL),
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func signSessionToken(sid string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// expが無いトークンはゼロ時刻を返す（呼び出し側で再発行される）
func parseSessionToken(raw string, secret []byte) (string, time.Time, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return "", time.Time{}, errors.New("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, errors.New("invalid claims")
	}
	sid, err := parseString(claims["sid"])
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := uuid.Parse(sid); err != nil {
		return "", time.Time{}, err
	}

	var exp time.Time
	if nd, err := claims.GetExpirationTime(); err == nil && nd != nil {
		exp = nd.Time
	}
	return sid, exp, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
