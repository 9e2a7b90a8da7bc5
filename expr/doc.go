// Package expr provides the symbolic expression tree produced by the mapper.
//
// An expression is an immutable tree of nodes (Param, Field, Convert, Const,
// Call, New, MemberInit, Guard) rooted in a Lambda with exactly one
// parameter. The same tree serves two consumers:
//
//   - Lambda.Compile turns it into a closure over reflect.Value for
//     in-process execution;
//   - Walk, Rewrite and Inline let an external engine (for example a query
//     translator) inspect and compose it without executing anything.
//
// Nodes are safe for concurrent use once constructed. Constructors validate
// their inputs against the reflected types, so a tree that was built without
// error is well-typed.
//
// Key functions:
//   - Parameter, FieldOf, ConvertTo, Constant, CallFunc, NewOf, Construct, Init, Guarded, NewLambda
//   - Selector, FieldPath, LastFieldName: single-field selection helpers
package expr
