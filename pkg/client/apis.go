package client

import (
	"encoding/json"
	"net/url"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/config"
)

func sessionPath(id string, suffix string) string {
	return "/sessions/" + url.PathEscape(id) + suffix
}

func parseState(ret string) (*calculator.State, error) {
	var st calculator.State
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calculator state")
	}
	return &st, nil
}

func parseString(ret string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal string response")
	}
	return s, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	return parseString(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) ListSessions() ([]string, error) {
	ret, err := c.Get("/sessions")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list sessions")
	}

	var ids []string
	if err := json.Unmarshal([]byte(ret), &ids); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal session list")
	}
	return ids, nil
}

func (c *Client) GetState(id string) (*calculator.State, error) {
	ret, err := c.Get(sessionPath(id, ""))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get session %s", id)
	}
	return parseState(ret)
}

func (c *Client) GetDisplay(id string) (string, error) {
	ret, err := c.Get(sessionPath(id, "/display"))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get display of session %s", id)
	}
	return parseString(ret)
}

func (c *Client) DeleteSession(id string) error {
	_, err := c.Delete(sessionPath(id, ""))
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to delete session %s", id)
	}
	return nil
}

// PressKeys sends key tokens, e.g. []string{"12", "+", "3="}, to session id.
func (c *Client) PressKeys(id string, keys []string) (*calculator.State, error) {
	payload, err := json.Marshal(keys)
	if err != nil {
		return nil, err
	}
	ret, err := c.Post(sessionPath(id, "/keys"), string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to press keys")
	}
	return parseState(ret)
}

func (c *Client) PressDigit(id string, d calculator.Digit) (*calculator.State, error) {
	payload, err := json.Marshal(d.String())
	if err != nil {
		return nil, err
	}
	ret, err := c.Post(sessionPath(id, "/digit"), string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to press digit %s", d)
	}
	return parseState(ret)
}

func (c *Client) PressOperator(id string, op calculator.Operator) (*calculator.State, error) {
	payload, err := json.Marshal(op)
	if err != nil {
		return nil, err
	}
	ret, err := c.Post(sessionPath(id, "/operator"), string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to press operator %s", op)
	}
	return parseState(ret)
}

func (c *Client) PressEquals(id string) (*calculator.State, error) {
	ret, err := c.Post(sessionPath(id, "/equals"), "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to press equals")
	}
	return parseState(ret)
}

func (c *Client) PressClear(id string) (*calculator.State, error) {
	ret, err := c.Post(sessionPath(id, "/clear"), "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to press clear")
	}
	return parseState(ret)
}
