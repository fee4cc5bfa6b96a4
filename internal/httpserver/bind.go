package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/minishop/internal/apperr"
)

// bindStrict decodes a single JSON object from the request body. Unknown
// fields, trailing data and malformed JSON are reported with msg.
func bindStrict(c echo.Context, dst any, msg string) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, msg, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperr.Validation(msg)
	}
	return nil
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindValidation, "invalid id", err)
	}
	return uint(id), nil
}
