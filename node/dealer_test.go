package node_test

import (
	"fmt"
	"reflect"

	"typecaster/node"
)

func ExampleDealer() {
	var d node.Dealer[reflect.Type]

	d.Needs(reflect.TypeFor[int]())
	k, ok := d.NextNeeds()
	fmt.Println("int:", k, ok)

	_, ok = d.NextNeeds()
	fmt.Println("empty:", ok)

	d.Needs(reflect.TypeFor[int]())
	_, ok = d.NextNeeds()
	fmt.Println("no duplicates:", ok)

	d.Needs(reflect.TypeFor[string]())
	d.Needs(reflect.TypeFor[bool]())
	d.Needs(reflect.TypeFor[string]())

	k, ok = d.NextNeeds()
	fmt.Println("first:", k, ok)

	k, ok = d.NextNeeds()
	fmt.Println("second:", k, ok)

	_, ok = d.NextNeeds()
	fmt.Println("no more:", ok)

	// Output:
	// int: int true
	// empty: false
	// no duplicates: false
	// first: string true
	// second: bool true
	// no more: false
}
