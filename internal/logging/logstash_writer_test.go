package logging

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func TestNewLogstashWriterRejectsEmptyAddr(t *testing.T) {
	if _, err := NewLogstashWriter("  "); err == nil {
		t.Error("expected error for empty address")
	}
}

func TestWriteDropsWhenUnreachable(t *testing.T) {
	w, err := NewLogstashWriter("127.0.0.1:1")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	w.dialTimeout = 50 * time.Millisecond
	defer w.Close()

	line := []byte("lost line\n")
	n, err := w.Write(line)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != len(line) {
		t.Errorf("n = %d, want %d (drop must look like success)", n, len(line))
	}
}

func TestWriteDeliversAndTerminatesLines(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return
		}
		received <- line
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("hello logstash")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case line := <-received:
		if line != "hello logstash\n" {
			t.Errorf("received %q, want newline-terminated line", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no line received")
	}
}

func TestWriteAfterClose(t *testing.T) {
	w, err := NewLogstashWriter("127.0.0.1:1")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("expected error writing to closed writer")
	}
}
