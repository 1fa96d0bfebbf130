package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"prereview/codec/decode"
	"prereview/models"
	"prereview/storage"
	"prereview/types"
)

const (
	sessionCookie = "session"
	sessionMaxAge = 30 * 24 * time.Hour
)

// sessions verknüpft das signierte Cookie mit dem Session-Store. Das Cookie
// enthält nur die Session-ID als Subject eines HS256-JWT.
type sessions struct {
	secret []byte
	store  storage.SessionStore
	now    func() time.Time
}

func newSessions(secret string, store storage.SessionStore) *sessions {
	return &sessions{secret: []byte(secret), store: store, now: time.Now}
}

func (s *sessions) sign(id types.Uuid) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionMaxAge)),
	})
	return token.SignedString(s.secret)
}

func (s *sessions) verify(raw string) (types.Uuid, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return types.Uuid{}, err
	}
	return types.ParseUuid(claims.Subject)
}

// user liefert den Benutzer der Session oder nil. Ungültige Cookies und
// unlesbare Payloads zählen als "nicht angemeldet".
func (s *sessions) user(c *gin.Context) *models.User {
	id, err := s.sessionID(c)
	if err != nil {
		return nil
	}
	payload, err := s.store.Load(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	raw, err := decode.ParseJSON(payload)
	if err != nil {
		return nil
	}
	user, err := models.UserC.Decode(raw)
	if err != nil {
		return nil
	}
	return &user
}

func (s *sessions) sessionID(c *gin.Context) (types.Uuid, error) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return types.Uuid{}, err
	}
	return s.verify(cookie)
}

// logIn legt eine neue Session für user an und setzt das Cookie.
func (s *sessions) logIn(c *gin.Context, user models.User) error {
	payload, err := json.Marshal(models.UserC.Encode(user))
	if err != nil {
		return err
	}
	id := types.NewUuid()
	if err := s.store.Save(c.Request.Context(), id, payload); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	token, err := s.sign(id)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(sessionMaxAge.Seconds()), "/", "", c.Request.TLS != nil, true)
	return nil
}

func (s *sessions) logOut(c *gin.Context) error {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	id, err := s.sessionID(c)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return err
	}
	return nil
}

var (
	colors  = []string{"Amber", "Blue", "Coral", "Crimson", "Golden", "Green", "Indigo", "Ivory", "Lavender", "Lime", "Magenta", "Orange", "Purple", "Red", "Silver", "Teal", "Turquoise", "Violet", "White", "Yellow"}
	animals = []string{"albatross", "badger", "beaver", "camel", "dolphin", "falcon", "ferret", "gazelle", "heron", "jaguar", "koala", "lemur", "lynx", "otter", "panda", "pelican", "penguin", "raccoon", "walrus", "wombat"}
)

// anonymousUser erzeugt einen Namen der Form "<Farbe> <Tier>". intN ist
// rand.IntN oder in Tests eine feste Folge.
func anonymousUser(intN func(int) int) models.User {
	color := colors[intN(len(colors))]
	animal := animals[intN(len(animals))]
	return models.User{Name: color + " " + cases.Title(language.English).String(animal)}
}

func randomUser() models.User {
	return anonymousUser(rand.IntN)
}

// safeRedirect akzeptiert nur Ziele auf dem eigenen Host. Alles andere führt
// zur Startseite.
func safeRedirect(referer, host string) string {
	if referer == "" {
		return "/"
	}
	u, err := url.Parse(referer)
	if err != nil {
		return "/"
	}
	if u.Host != "" && u.Host != host {
		return "/"
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "/"
	}
	path := u.EscapedPath()
	if path == "" || path[0] != '/' || (len(path) > 1 && (path[1] == '/' || path[1] == '\\')) {
		return "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}
