package extruntime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/go-zeromq/zmq4"
	"golang.org/x/sync/errgroup"

	"gridsheet/a1"
	"gridsheet/engine"
	"gridsheet/sheet"
)

// maxConcurrentEnvelopes bounds how many worker replies (code results,
// get_cells callbacks) are handled at once. Each callback can itself
// block on GridController state, so an unbounded fan-out here would let
// one slow worker's backlog starve every other transaction's replies.
const maxConcurrentEnvelopes = 16

// Client is the engine-side half of the external runtime boundary
// (spec.md §6). It implements engine.ExternalRuntime: Submit hands a
// CodeRunRequest to whichever worker is next in round-robin order over a
// ROUTER socket, then returns without blocking — the result comes back
// later, asynchronously, through the same socket and is fed into
// GridController.CalculationComplete. While a request is outstanding the
// worker may call back with get_cells, answered here against live
// GridController state (GridController.GetCells).
//
// A ROUTER socket is used rather than a strict REQ/REP pair so Submit
// never blocks and many workers can be connected (and used round-robin)
// at once, generalizing kernel/kernel.go's own ROUTER-based shell/control
// channels from a single Jupyter frontend to a pool of runtime workers.
type Client struct {
	cfg  Config
	sock zmq4.Socket

	controller *engine.GridController

	mu           sync.Mutex
	workers      [][]byte
	next         int
	pendingSheet map[string]sheet.SheetID
}

// NewClient returns a Client bound to cfg.ListenAddr once Start is
// called. controller answers get_cells callbacks and receives completed
// results.
func NewClient(cfg Config, controller *engine.GridController) *Client {
	return &Client{cfg: cfg, controller: controller, pendingSheet: map[string]sheet.SheetID{}}
}

// Start binds the ROUTER socket and begins the receive loop in the
// background. The loop runs until ctx is canceled or Stop is called.
func (c *Client) Start(ctx context.Context) error {
	c.sock = zmq4.NewRouter(ctx)
	addr := fmt.Sprintf("%s://%s", c.cfg.Transport, c.cfg.ListenAddr)
	if err := c.sock.Listen(addr); err != nil {
		return fmt.Errorf("extruntime: binding to %s: %w", addr, err)
	}
	go c.loop(ctx)
	return nil
}

// Stop closes the underlying socket.
func (c *Client) Stop() {
	if c.sock != nil {
		c.sock.Close()
	}
}

// Submit implements engine.ExternalRuntime. If no worker is currently
// connected the request is silently dropped and the transaction stays
// suspended — the same fail-open posture kernel/kernel.go takes on a
// signature mismatch (log and move on rather than crash the process).
func (c *Client) Submit(req engine.CodeRunRequest) {
	c.mu.Lock()
	if len(c.workers) == 0 {
		c.mu.Unlock()
		log.Printf("extruntime: no worker connected, dropping request %s", req.TransactionID)
		return
	}
	identity := c.workers[c.next%len(c.workers)]
	c.next++
	c.pendingSheet[req.TransactionID] = req.Sheet
	c.mu.Unlock()

	body, err := encodeEnvelope([]byte(c.cfg.Key), typeCodeRunRequest, toCodeRunRequestWire(req))
	if err != nil {
		log.Printf("extruntime: encoding request %s: %v", req.TransactionID, err)
		return
	}
	if err := c.sock.Send(zmq4.NewMsgFrom(identity, body)); err != nil {
		log.Printf("extruntime: sending request %s: %v", req.TransactionID, err)
	}
}

func (c *Client) loop(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEnvelopes)
	defer g.Wait()

	for {
		msg, err := c.sock.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("extruntime: recv: %v", err)
			continue
		}
		if len(msg.Frames) < 2 {
			continue
		}
		identity := msg.Frames[0]
		c.registerWorker(identity)

		env, err := decodeEnvelope([]byte(c.cfg.Key), msg.Frames[1])
		if err != nil {
			log.Printf("extruntime: %v", err)
			continue
		}
		if gctx.Err() != nil {
			return
		}
		g.Go(func() error {
			c.handleEnvelope(identity, env)
			return nil
		})
	}
}

func (c *Client) registerWorker(identity []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.workers {
		if string(w) == string(identity) {
			return
		}
	}
	c.workers = append(c.workers, append([]byte(nil), identity...))
}

func (c *Client) handleEnvelope(identity []byte, env envelope) {
	switch env.Type {
	case typeCodeResult:
		c.handleCodeResult(env)
	case typeGetCellsRequest:
		c.handleGetCells(identity, env)
	default:
		log.Printf("extruntime: unexpected envelope type %q from worker", env.Type)
	}
}

func (c *Client) handleCodeResult(env envelope) {
	var w jsCodeResultWire
	if err := json.Unmarshal(env.Body, &w); err != nil {
		log.Printf("extruntime: decoding code result: %v", err)
		return
	}
	c.mu.Lock()
	delete(c.pendingSheet, w.TransactionID)
	c.mu.Unlock()

	if _, err := c.controller.CalculationComplete(w.TransactionID, jsCodeResultFromWire(w)); err != nil {
		log.Printf("extruntime: CalculationComplete(%s): %v", w.TransactionID, err)
	}
}

func (c *Client) handleGetCells(identity []byte, env envelope) {
	var w getCellsRequestWire
	if err := json.Unmarshal(env.Body, &w); err != nil {
		log.Printf("extruntime: decoding get_cells request: %v", err)
		return
	}

	sheetID := c.sheetFor(w.TransactionID, w.SheetID)
	selection, err := a1.ParseSelection(sheetID, w.A1Query)
	if err != nil {
		c.replyError(identity, fmt.Errorf("bad a1_query %q: %w", w.A1Query, err))
		return
	}
	rect := selection.LargestRectFinite()

	resp, err := c.controller.GetCells(w.TransactionID, sheetID, rect)
	if err != nil {
		c.replyError(identity, err)
		return
	}

	body, err := encodeEnvelope([]byte(c.cfg.Key), typeGetCellsReply, cellA1ResponseToWire(resp))
	if err != nil {
		log.Printf("extruntime: encoding get_cells reply: %v", err)
		return
	}
	if err := c.sock.Send(zmq4.NewMsgFrom(identity, body)); err != nil {
		log.Printf("extruntime: sending get_cells reply: %v", err)
	}
}

func (c *Client) sheetFor(txnID string, explicit *string) sheet.SheetID {
	if explicit != nil {
		return sheet.SheetID(*explicit)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingSheet[txnID]
}

func (c *Client) replyError(identity []byte, cause error) {
	body, err := encodeEnvelope([]byte(c.cfg.Key), typeError, errorWire{Message: cause.Error()})
	if err != nil {
		log.Printf("extruntime: encoding error reply: %v", err)
		return
	}
	if err := c.sock.Send(zmq4.NewMsgFrom(identity, body)); err != nil {
		log.Printf("extruntime: sending error reply: %v", err)
	}
}
