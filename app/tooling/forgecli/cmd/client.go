package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/forgechain/forge/business/web/errs"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
)

func nodeURL(path string) string {
	return strings.TrimSuffix(viper.GetString("url"), "/") + path
}

// getJSON performs a GET against the node and decodes the response into out.
func getJSON(path string, out any) error {
	client := resty.New()

	resp, err := client.R().SetHeader("Accept", "application/json").Get(nodeURL(path))
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return apiError(resp)
	}

	return json.Unmarshal(resp.Body(), out)
}

// postJSON performs a POST against the node and decodes the response into out.
func postJSON(path string, body any, out any) error {
	client := resty.New()

	resp, err := client.R().
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(nodeURL(path))
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return apiError(resp)
	}

	return json.Unmarshal(resp.Body(), out)
}

// apiError turns a non-200 node response into an error, pulling out the
// error envelope when the node sent one.
func apiError(resp *resty.Response) error {
	var er errs.Response
	if err := json.Unmarshal(resp.Body(), &er); err == nil && er.Error != "" {
		if len(er.Fields) > 0 {
			fields := make([]string, 0, len(er.Fields))
			for field, msg := range er.Fields {
				fields = append(fields, fmt.Sprintf("%s: %s", field, msg))
			}
			return fmt.Errorf("%s [%s]", er.Error, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%s", er.Error)
	}

	return fmt.Errorf("node returned status %d", resp.StatusCode())
}
