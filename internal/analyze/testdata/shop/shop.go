package shop

import "time"

type Status string

type Order struct {
	ID       string    `json:"id"`
	Status   Status    `json:"status" default:"pending"`
	Customer *Customer `json:"customer,omitempty"`
	Placed   time.Time `json:"placed"`
}

type Customer struct {
	Name string `json:"name"`
}

type Handler interface {
	Handle(o *Order) error
}
