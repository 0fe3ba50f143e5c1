// Package shift contains the Shift read model mirroring driver roster
// entries. Shift CRUD and approval live in the roster system; this module
// reads shifts to gate token issuance (a driver needs an approved shift
// covering now) and to let the sweeper retire waiting tokens whose shift has
// ended.
package shift
