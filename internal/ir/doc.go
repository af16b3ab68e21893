// Package ir holds the strongly-typed values that cross the boundary
// between the rule engine, the session bridge and the table.
//
// Rule-engine data (card and slot descriptors produced by game scripts) is
// marshalled into these types at the script boundary and never travels
// further as untyped data. Notifications are the single event currency:
// the session stamps them with a logical sequence number and fans them out
// to listeners such as the table and the terminal UI.
//
// This package imports nothing internal. All other internal packages may
// import ir.
package ir
