// Package hosted defines the object model of the embedded script runtime and
// the Env capability surface through which native code reaches into it.
//
// Values created by hosted scripts are reached only through opaque Ref
// handles. Native code never assumes a concrete type; it invokes accessor
// methods reflectively through Env.Invoke using (name, signature) descriptors,
// the same way the script runtime itself dispatches them. A Ref is borrowed
// for the duration of one call and must not be retained.
//
// Failures inside the runtime are reported to native callers as errors;
// failures travelling the other way are reported to the runtime as a pending
// Exception set on the Env.
package hosted
