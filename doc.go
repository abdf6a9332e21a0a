/*
Package weave defines all common interfaces that tie together the various
subpackages of the escrow chain, as well as implementations of some of the
simpler components (when interfaces would be too much overhead).

Context is passed between app, decorators and handlers. weave defines common
keys to store block information in it, such as height, chain id and logger.
Each extension may add its own keys.

For every value XYZ of type T kept in the context there are two functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, so that lower level modules
cannot overwrite it (eg. height, header).
*/
package weave
