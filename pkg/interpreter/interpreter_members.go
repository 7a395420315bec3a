package interpreter

import (
	"fmt"

	"delta/interpreter-go/pkg/binder"
	"delta/interpreter-go/pkg/bound"
	"delta/interpreter-go/pkg/runtime"
	"delta/interpreter-go/pkg/symbols"
)

type nativeFunction func(i *Interpreter, args []runtime.Value) (runtime.Value, error)

func builtinNatives() map[*symbols.FunctionSymbol]nativeFunction {
	return map[*symbols.FunctionSymbol]nativeFunction{
		binder.Print: func(i *Interpreter, args []runtime.Value) (runtime.Value, error) {
			if _, err := fmt.Fprintln(i.stdout, runtime.Format(args[0])); err != nil {
				return nil, err
			}
			return runtime.Unit, nil
		},
	}
}

func (i *Interpreter) evaluateArguments(args []bound.Expression) ([]runtime.Value, error) {
	values := make([]runtime.Value, 0, len(args))
	for _, arg := range args {
		val, err := i.evaluateExpression(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

func (i *Interpreter) evaluateCall(expr *bound.CallExpression) (runtime.Value, error) {
	args, err := i.evaluateArguments(expr.Arguments)
	if err != nil {
		return nil, err
	}
	if native, ok := i.natives[expr.Function]; ok {
		return native(i, args)
	}
	body, ok := i.program.Body(expr.Function)
	if !ok {
		return nil, fault(expr.Span(), "function '%s' has no body", expr.Function.Name())
	}
	return i.invoke(expr.Span(), expr.Function, body, nil, args)
}

func (i *Interpreter) classData(expr bound.Expression, class *symbols.ClassSymbol) (*binder.ClassData, error) {
	data, ok := i.program.Class(class)
	if !ok {
		return nil, fault(expr.Span(), "class '%s' is not defined", class.Name())
	}
	return data, nil
}

// evaluateConstruct builds an instance: property initializers run in
// declaration order, then the constructor runs with the new instance.
func (i *Interpreter) evaluateConstruct(expr *bound.ConstructExpression) (runtime.Value, error) {
	args, err := i.evaluateArguments(expr.Arguments)
	if err != nil {
		return nil, err
	}
	data, err := i.classData(expr, expr.Class)
	if err != nil {
		return nil, err
	}
	inst := runtime.NewInstance(expr.Class)
	if err := i.initializeProperties(inst, data, false); err != nil {
		return nil, err
	}
	if ctor := expr.Class.Constructor(); ctor != nil && data.Constructor != nil {
		if _, err := i.invoke(expr.Span(), ctor, data.Constructor, inst, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (i *Interpreter) initializeProperties(inst *runtime.InstanceValue, data *binder.ClassData, static bool) error {
	for _, prop := range data.Properties {
		if prop.Property.Static() != static {
			continue
		}
		if prop.Initializer == nil {
			inst.Set(prop.Property, runtime.ZeroValue(prop.Property.Type()))
			continue
		}
		val, err := i.evaluateExpression(prop.Initializer)
		if err != nil {
			return err
		}
		inst.Set(prop.Property, val)
	}
	return nil
}

// staticStorage returns the instance holding a class's static properties,
// initializing it on first use.
func (i *Interpreter) staticStorage(class *symbols.ClassSymbol) (*runtime.InstanceValue, error) {
	if inst, ok := i.globals.Static(class); ok {
		return inst, nil
	}
	data, ok := i.program.Class(class)
	if !ok {
		return nil, fault(noSpan, "class '%s' is not defined", class.Name())
	}
	// Initializers reading sibling statics see the partial storage; it is
	// published to the session only once every initializer has run.
	if inst, ok := i.initializing[class]; ok {
		return inst, nil
	}
	inst := runtime.NewInstance(class)
	i.initializing[class] = inst
	err := i.initializeProperties(inst, data, true)
	delete(i.initializing, class)
	if err != nil {
		return nil, err
	}
	i.globals.SetStatic(class, inst)
	return inst, nil
}

// propertyOwner finds the storage a bare property name refers to: the static
// storage of its class or the instance of the current call.
func (i *Interpreter) propertyOwner(expr bound.Expression, prop *symbols.VariableSymbol) (*runtime.InstanceValue, error) {
	if prop.Static() {
		return i.staticStorage(prop.Owner())
	}
	inst := i.currentFrame().Instance
	if inst == nil {
		return nil, fault(expr.Span(), "property '%s' used without an instance", prop.Name())
	}
	return inst, nil
}

func (i *Interpreter) readProperty(expr bound.Expression, inst *runtime.InstanceValue, prop *symbols.VariableSymbol) (runtime.Value, error) {
	val, err := inst.Get(prop)
	if err != nil {
		return nil, fault(expr.Span(), "%v", err)
	}
	return val, nil
}

func (i *Interpreter) evaluateInstance(expr bound.Expression) (*runtime.InstanceValue, error) {
	val, err := i.evaluateExpression(expr)
	if err != nil {
		return nil, err
	}
	inst, ok := val.(*runtime.InstanceValue)
	if !ok {
		return nil, fault(expr.Span(), "expected an instance, got %s", val.Kind())
	}
	return inst, nil
}

func (i *Interpreter) methodBody(expr bound.Expression, method *symbols.MethodSymbol) (*bound.BlockStatement, error) {
	body, ok := i.program.MethodBody(method)
	if !ok {
		return nil, fault(expr.Span(), "method '%s' has no body", method.Name())
	}
	return body, nil
}

// evaluateMethodCall calls an instance method. A nil receiver expression
// means the instance of the current call.
func (i *Interpreter) evaluateMethodCall(expr *bound.MethodCallExpression) (runtime.Value, error) {
	var inst *runtime.InstanceValue
	if expr.Instance == nil {
		inst = i.currentFrame().Instance
		if inst == nil {
			return nil, fault(expr.Span(), "method '%s' called without an instance", expr.Method.Name())
		}
	} else {
		var err error
		if inst, err = i.evaluateInstance(expr.Instance); err != nil {
			return nil, err
		}
	}
	args, err := i.evaluateArguments(expr.Arguments)
	if err != nil {
		return nil, err
	}
	body, err := i.methodBody(expr, expr.Method)
	if err != nil {
		return nil, err
	}
	return i.invoke(expr.Span(), expr.Method, body, inst, args)
}

func (i *Interpreter) evaluateStaticMethodCall(expr *bound.StaticMethodCallExpression) (runtime.Value, error) {
	args, err := i.evaluateArguments(expr.Arguments)
	if err != nil {
		return nil, err
	}
	body, err := i.methodBody(expr, expr.Method)
	if err != nil {
		return nil, err
	}
	return i.invoke(expr.Span(), expr.Method, body, nil, args)
}
