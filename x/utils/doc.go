/*
Package utils contains decorators that every application stack needs:
panic recovery, logging, action tags and savepoints that make a
transaction apply all of its writes or none.
*/
package utils
