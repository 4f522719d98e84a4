package pipeline

import (
	"fmt"
	"os"
	"strings"
)

// SecretType 凭证来源类型
type SecretType string

const (
	// SecretTypeEnvVar 从环境变量解析
	SecretTypeEnvVar SecretType = "env_var"

	// SecretTypeToken 显式字面量令牌
	SecretTypeToken SecretType = "token"
)

// Secret 不透明的认证凭证引用。
// 字面量令牌永远不会被序列化或打印；环境变量引用按名称序列化。
type Secret struct {
	typ     SecretType
	envVars []string
	token   string
	strict  bool
}

// SecretFromEnv 创建严格的环境变量凭证引用（解析失败时报错）
func SecretFromEnv(vars ...string) Secret {
	return Secret{typ: SecretTypeEnvVar, envVars: vars, strict: true}
}

// SecretFromOptionalEnv 创建非严格的环境变量凭证引用（未设置时解析为空值）
func SecretFromOptionalEnv(vars ...string) Secret {
	return Secret{typ: SecretTypeEnvVar, envVars: vars, strict: false}
}

// SecretFromToken 创建字面量令牌凭证
func SecretFromToken(token string) Secret {
	return Secret{typ: SecretTypeToken, token: token, strict: true}
}

// Type 返回凭证来源类型
func (s Secret) Type() SecretType {
	return s.typ
}

// Resolve 解析凭证值。
// 严格的环境变量引用在所有变量都未设置时返回凭证错误。
func (s Secret) Resolve() (string, error) {
	switch s.typ {
	case SecretTypeToken:
		return s.token, nil
	case SecretTypeEnvVar:
		for _, name := range s.envVars {
			if value, ok := os.LookupEnv(name); ok {
				return value, nil
			}
		}
		if s.strict {
			return "", NewCredentialError(
				fmt.Sprintf("none of the %s environment variables are set", strings.Join(s.envVars, ", ")), nil)
		}
		return "", nil
	default:
		return "", NewCredentialError("credential not configured", ErrNoCredential)
	}
}

// String 实现Stringer接口，不泄露令牌内容
func (s Secret) String() string {
	if s.typ == SecretTypeEnvVar {
		return fmt.Sprintf("Secret(env_vars=%v, strict=%v)", s.envVars, s.strict)
	}
	return "Secret(****)"
}

// ToDict 序列化凭证引用。字面量令牌只记录类型，不记录值。
func (s Secret) ToDict() map[string]any {
	if s.typ == SecretTypeEnvVar {
		return map[string]any{
			"type":     string(SecretTypeEnvVar),
			"env_vars": append([]string{}, s.envVars...),
			"strict":   s.strict,
		}
	}
	return map[string]any{
		"type": string(SecretTypeToken),
	}
}

// SecretFromDict 从序列化形式重建凭证引用。
// 令牌类型的凭证无法从序列化数据还原。
func SecretFromDict(data map[string]any) (Secret, error) {
	typ, _ := data["type"].(string)
	switch SecretType(typ) {
	case SecretTypeEnvVar:
		var vars []string
		switch raw := data["env_vars"].(type) {
		case []string:
			vars = append(vars, raw...)
		case []any:
			for _, v := range raw {
				name, ok := v.(string)
				if !ok {
					return Secret{}, NewSerializeError("env_vars must be a list of strings, got %T", v)
				}
				vars = append(vars, name)
			}
		default:
			return Secret{}, NewSerializeError("env_vars missing from serialized secret")
		}
		strict := true
		if v, ok := data["strict"].(bool); ok {
			strict = v
		}
		return Secret{typ: SecretTypeEnvVar, envVars: vars, strict: strict}, nil
	case SecretTypeToken:
		return Secret{}, NewSerializeError("token secrets cannot be deserialized, use an env_var secret instead")
	default:
		return Secret{}, NewSerializeError("unsupported secret type: %q", typ)
	}
}
