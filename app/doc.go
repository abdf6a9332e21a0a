/*
Package app contains the ABCI application: it routes transactions through a
chain of decorators to the handlers, keeps the check and deliver caches on
top of the committed store and answers queries.
*/
package app
