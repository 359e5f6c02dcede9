package cryptofolio

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is what a trade did to the holding of its asset.
type Action int

const (
	Buy Action = iota
	Sell
	Staking
)

var actionNames = [...]string{Buy: "BUY", Sell: "SELL", Staking: "STAKING"}

// ParseAction returns the action named name, case-insensitive.
func ParseAction(name string) (Action, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for code, s := range actionNames {
		if s == n {
			return Action(code), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// ActionFromCode returns the action stored as code.
func ActionFromCode(code int) (Action, error) {
	if code < 0 || code >= len(actionNames) {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownAction, code)
	}
	return Action(code), nil
}

func (a Action) Code() int { return int(a) }

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("code", a.Code())
	w.Append("name", a.String())
	return w.MarshalJSON()
}

// UnmarshalJSON reads the persisted object, the code is authoritative.
func (a *Action) UnmarshalJSON(data []byte) error {
	var aux struct {
		Code *int   `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if aux.Code != nil {
		*a, err = ActionFromCode(*aux.Code)
	} else {
		*a, err = ParseAction(aux.Name)
	}
	return err
}
