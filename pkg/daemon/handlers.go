package daemon

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/keypad"
	"github.com/charlie0129/calc/pkg/session"
	"github.com/charlie0129/calc/pkg/version"
)

// abortWithError responds with the error text as a JSON string.
func abortWithError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, keypad.ErrInvalidKey),
		errors.Is(err, calculator.ErrInvalidDigit),
		errors.Is(err, calculator.ErrInvalidOperator):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		logrus.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

func (d *Daemon) getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func (d *Daemon) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(d.conf)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (d *Daemon) listSessions(c *gin.Context) {
	ids, err := d.manager.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, ids)
}

func (d *Daemon) getSession(c *gin.Context) {
	st, err := d.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, st)
}

func (d *Daemon) getDisplay(c *gin.Context) {
	st, err := d.manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, st.Display)
}

func (d *Daemon) deleteSession(c *gin.Context) {
	if err := d.manager.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	logrus.Infof("deleted session %s", c.Param("id"))
	c.IndentedJSON(http.StatusOK, "ok")
}

func (d *Daemon) press(c *gin.Context, keys ...keypad.Key) {
	st, err := d.manager.Press(c.Request.Context(), c.Param("id"), keys...)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, st)
}

func (d *Daemon) pressKeys(c *gin.Context) {
	var tokens []string
	if err := c.BindJSON(&tokens); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	keys, err := keypad.ParseKeys(tokens)
	if err != nil {
		abortWithError(c, err)
		return
	}

	d.press(c, keys...)
}

func (d *Daemon) pressDigit(c *gin.Context) {
	var s string
	if err := c.BindJSON(&s); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	digit, err := calculator.ParseDigit(s)
	if err != nil {
		abortWithError(c, err)
		return
	}

	d.press(c, keypad.DigitKey(digit))
}

func (d *Daemon) pressOperator(c *gin.Context) {
	var s string
	if err := c.BindJSON(&s); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	op, err := calculator.ParseOperator(s)
	if err != nil {
		abortWithError(c, err)
		return
	}

	d.press(c, keypad.OperatorKey(op))
}

func (d *Daemon) pressEquals(c *gin.Context) {
	d.press(c, keypad.EqualsKey())
}

func (d *Daemon) pressClear(c *gin.Context) {
	d.press(c, keypad.ClearKey())
}
