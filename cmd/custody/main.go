package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

const callerHeader = "X-Caller-Address"

var (
	custodyDataDir = btcutil.AppDataDir("custody-cli", false)
	statePath      = filepath.Join(custodyDataDir, "state.json")

	httpClient = &http.Client{Timeout: 15 * time.Second}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "custody CLI"
	app.Usage = "Command line interface for custodyd depositors"
	app.Commands = append(
		app.Commands,
		&config,
		&deposit,
		&withdraw,
		&listdeposits,
		&listreceipts,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(custodyDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(custodyDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getFromState(key, hint string) (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	value, ok := state[key]
	if !ok || value == "" {
		return "", fmt.Errorf("set %s with `config set %s`", hint, key)
	}
	return value, nil
}

func getCallerAddress(ctx *cli.Context) (string, error) {
	if address := ctx.String("address"); address != "" {
		return address, nil
	}
	return getFromState("address", "caller address")
}

type errorReply struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// doRequest makes a request to the daemon and returns the raw JSON body of a
// successful response.
func doRequest(method, path, caller string, body interface{}) ([]byte, error) {
	server, err := getFromState("rpcserver", "daemon address")
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, server+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %v", err)
	}
	defer res.Body.Close()

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		reply := errorReply{}
		if err := json.Unmarshal(buf, &reply); err != nil || reply.Code == "" {
			return nil, fmt.Errorf("daemon replied with status %d", res.StatusCode)
		}
		return nil, fmt.Errorf("%s: %s", reply.Code, reply.Error)
	}
	return buf, nil
}

func printRespJSON(resp []byte) {
	out := &bytes.Buffer{}
	if err := json.Indent(out, resp, "", "\t"); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(out.String())
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[custody] %v\n", err)
	}
	os.Exit(1)
}
