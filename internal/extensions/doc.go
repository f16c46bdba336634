// Package extensions models app extensions: the specification that declares
// how a kind of extension is configured and deployed, and the instances that
// bind a validated configuration file to its specification.
//
// A Spec is built once from a Descriptor and never changes. Instances come in
// three closed variants (UIExtension, ThemeExtension, FunctionExtension) that
// share the Extension interface; DeployConfig and PublishURL on an instance
// delegate to its Spec.
package extensions
