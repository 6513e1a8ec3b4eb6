package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"kielo/build"
	"kielo/config"
)

// serveRequest is one compile-server request: the client sends a single JSON
// object and half-closes the connection
type serveRequest struct {
	Command string `json:"command"`
	Code    string `json:"code"`
}

// serveResponse carries either the compiled program (base64-encoded ELF) or
// an error message
type serveResponse struct {
	Program string `json:"program,omitempty"`
	Error   string `json:"error,omitempty"`
}

// runServer runs the TCP compile server.  Connections are handled one at a
// time: the compiler pipeline is strictly single-threaded.
func runServer(host string, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return err
	}
	defer ln.Close()

	fmt.Printf("Starting TCP server at %s:%d\n", host, port)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		handleConn(conn)
	}
}

// handleConn serves one request: read the full request, compile, respond
func handleConn(conn net.Conn) {
	defer conn.Close()

	resp := serveResponse{}

	data, err := io.ReadAll(conn)
	if err != nil {
		resp.Error = "failed to read request: " + err.Error()
		writeResponse(conn, resp)
		return
	}

	req := serveRequest{}
	if err = json.Unmarshal(data, &req); err != nil {
		resp.Error = "invalid request: " + err.Error()
		writeResponse(conn, resp)
		return
	}

	switch req.Command {
	case "ping":
	case "compile":
		resp = compileRequest(req.Code)
	default:
		resp.Error = "unknown command: " + req.Command
	}

	writeResponse(conn, resp)
}

// compileRequest compiles source text to an executable in a temporary
// location and returns its bytes base64-encoded
func compileRequest(code string) serveResponse {
	tmpDir, err := os.MkdirTemp("", "kielo-serve-*")
	if err != nil {
		return serveResponse{Error: "failed to create temporary directory: " + err.Error()}
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "program")

	c := build.NewCompilerFromString(code, outPath, build.Options{Toolchain: config.ToolchainLD})
	if !c.Compile() {
		return serveResponse{Error: "compilation failed"}
	}

	program, err := os.ReadFile(outPath)
	if err != nil {
		return serveResponse{Error: "failed to read compiled program: " + err.Error()}
	}

	return serveResponse{Program: base64.StdEncoding.EncodeToString(program)}
}

// writeResponse marshals and sends a response, ignoring write failures (the
// client may already be gone)
func writeResponse(conn net.Conn, resp serveResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}

	_, _ = conn.Write(data)
}
