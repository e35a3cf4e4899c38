// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"io"
	"log"
	"net"
	"net/rpc"
	"sync"
)

// ServiceName is the name under which a device is published to RPC clients.
const ServiceName = "Device"

// RegionArgs holds the arguments of a ReadRegion call.
type RegionArgs struct {
	Base uint16
	Size int
}

// WriteArgs holds the arguments of a WriteMemory call.
type WriteArgs struct {
	Addr  uint16
	Value byte
}

// ResetArgs holds the arguments of a Reset call.
type ResetArgs struct {
	Decoder Decoder
	Image   string
}

// Service publishes a Device over net/rpc. Calls from all connections are
// serialized, so the device sees one operation at a time.
type Service struct {
	mu  sync.Mutex
	dev Device
}

// NewService creates an RPC service wrapping the device.
func NewService(dev Device) *Service {
	return &Service{dev: dev}
}

// Step executes a single instruction.
func (s *Service) Step(_ int, reply *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.Step()
}

// ReadRegisters returns a register snapshot.
func (s *Service) ReadRegisters(_ int, reply *Registers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.dev.ReadRegisters()
	*reply = r
	return err
}

// ReadRegion returns a block of memory.
func (s *Service) ReadRegion(args RegionArgs, reply *[]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.dev.ReadRegion(args.Base, args.Size)
	*reply = b
	return err
}

// WriteMemory stores a byte in memory.
func (s *Service) WriteMemory(args WriteArgs, reply *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.WriteMemory(args.Addr, args.Value)
}

// Disassemble decodes instructions at the program counter.
func (s *Service) Disassemble(count int, reply *[]Instruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	insts, err := s.dev.Disassemble(count)
	*reply = insts
	return err
}

// Reset resets the device.
func (s *Service) Reset(args ResetArgs, reply *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.Reset(args.Decoder, args.Image)
}

// NewServer creates an RPC server publishing the device.
func NewServer(dev Device) (*rpc.Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName(ServiceName, NewService(dev)); err != nil {
		return nil, err
	}
	return server, nil
}

// Serve accepts connections on the listener and serves device requests on
// each of them until the listener fails.
func Serve(l net.Listener, dev Device) error {
	server, err := NewServer(dev)
	if err != nil {
		return err
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		log.Printf("device: client connected from %s", conn.RemoteAddr())
		go func() {
			server.ServeConn(conn)
			log.Printf("device: client %s disconnected", conn.RemoteAddr())
		}()
	}
}

// Client is a Device that forwards every operation to a remote device
// service.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to a device service at the TCP address.
func Dial(addr string) (*Client, error) {
	c, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: c}, nil
}

// NewClient creates a device client on an established connection.
func NewClient(conn io.ReadWriteCloser) *Client {
	return &Client{rpc: rpc.NewClient(conn)}
}

// Close closes the connection to the device service.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) call(method string, args any, reply any) error {
	return c.rpc.Call(ServiceName+"."+method, args, reply)
}

// Step executes a single instruction on the remote device.
func (c *Client) Step() error {
	var reply int
	return c.call("Step", 0, &reply)
}

// ReadRegisters returns a register snapshot from the remote device.
func (c *Client) ReadRegisters() (Registers, error) {
	var r Registers
	err := c.call("ReadRegisters", 0, &r)
	return r, err
}

// ReadRegion reads a block of memory from the remote device.
func (c *Client) ReadRegion(base uint16, size int) ([]byte, error) {
	var b []byte
	err := c.call("ReadRegion", RegionArgs{Base: base, Size: size}, &b)
	return b, err
}

// WriteMemory stores a byte in the remote device's memory.
func (c *Client) WriteMemory(addr uint16, v byte) error {
	var reply int
	return c.call("WriteMemory", WriteArgs{Addr: addr, Value: v}, &reply)
}

// Disassemble decodes instructions on the remote device.
func (c *Client) Disassemble(count int) ([]Instruction, error) {
	var insts []Instruction
	err := c.call("Disassemble", count, &insts)
	return insts, err
}

// Reset resets the remote device.
func (c *Client) Reset(d Decoder, image string) error {
	var reply int
	return c.call("Reset", ResetArgs{Decoder: d, Image: image}, &reply)
}
