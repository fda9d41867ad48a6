package db

import (
	"context"
	"database/sql"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categorias (
		id_categoria BIGSERIAL PRIMARY KEY,
		nome_categoria TEXT NOT NULL UNIQUE,
		taxa_depreciacao DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS setores_locais (
		id_setor_local BIGSERIAL PRIMARY KEY,
		nome_setor_local TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS fornecedores (
		id_fornecedor BIGSERIAL PRIMARY KEY,
		nome_fornecedor TEXT NOT NULL,
		cnpj TEXT UNIQUE,
		telefone TEXT,
		email TEXT,
		inscricao_estadual TEXT,
		contato TEXT,
		observacoes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id_usuario BIGSERIAL PRIMARY KEY,
		nome TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		senha TEXT NOT NULL,
		nivel_acesso TEXT NOT NULL DEFAULT 'operador',
		ativo BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS patrimonios (
		id_patrimonio BIGSERIAL PRIMARY KEY,
		nome TEXT NOT NULL,
		descricao TEXT,
		numero_serie TEXT,
		data_aquisicao DATE NOT NULL,
		valor_compra NUMERIC(14,2) NOT NULL,
		quantidade INTEGER NOT NULL DEFAULT 1,
		numero_nota TEXT,
		estado_conservacao TEXT NOT NULL DEFAULT 'good',
		id_categoria BIGINT NOT NULL REFERENCES categorias(id_categoria),
		id_fornecedor BIGINT NOT NULL REFERENCES fornecedores(id_fornecedor),
		id_setor_local BIGINT NOT NULL REFERENCES setores_locais(id_setor_local),
		status TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE TABLE IF NOT EXISTS manutencoes (
		id_manutencao BIGSERIAL PRIMARY KEY,
		id_patrimonio BIGINT NOT NULL REFERENCES patrimonios(id_patrimonio),
		tipo_manutencao TEXT NOT NULL,
		data_inicio DATE NOT NULL,
		data_fim DATE,
		custo NUMERIC(14,2) NOT NULL DEFAULT 0,
		empresa TEXT,
		descricao TEXT,
		status TEXT NOT NULL DEFAULT 'in_progress'
	)`,
	`CREATE TABLE IF NOT EXISTS movimentacoes (
		id_movimentacao BIGSERIAL PRIMARY KEY,
		id_patrimonio BIGINT NOT NULL REFERENCES patrimonios(id_patrimonio),
		id_usuario BIGINT REFERENCES usuarios(id_usuario),
		data_movimentacao TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		tipo_movimentacao TEXT NOT NULL,
		origem TEXT NOT NULL DEFAULT '-',
		destino TEXT NOT NULL,
		responsavel TEXT,
		observacoes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS centro_custo (
		id_centro_custo BIGSERIAL PRIMARY KEY,
		codigo TEXT,
		nome_centro TEXT NOT NULL,
		responsavel TEXT,
		ativo BOOLEAN NOT NULL DEFAULT TRUE,
		observacoes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS notas_fiscais (
		id_nota_fiscal BIGSERIAL PRIMARY KEY,
		numero_nota TEXT NOT NULL,
		data_emissao DATE NOT NULL,
		valor_total NUMERIC(14,2) NOT NULL DEFAULT 0,
		id_fornecedor BIGINT NOT NULL REFERENCES fornecedores(id_fornecedor),
		id_centro_custo BIGINT REFERENCES centro_custo(id_centro_custo),
		caminho_arquivo_nf TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS itens_nota (
		id_item BIGSERIAL PRIMARY KEY,
		id_nota_fiscal BIGINT NOT NULL REFERENCES notas_fiscais(id_nota_fiscal),
		descricao TEXT NOT NULL,
		quantidade INTEGER NOT NULL DEFAULT 1,
		valor NUMERIC(14,2) NOT NULL DEFAULT 0,
		ncm TEXT,
		cfop TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS auditorias (
		id_auditoria BIGSERIAL PRIMARY KEY,
		data_auditoria TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		tabela_afetada TEXT NOT NULL,
		id_registro_afetado BIGINT NOT NULL,
		acao TEXT NOT NULL,
		id_usuario BIGINT,
		detalhes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS import_tasks (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		payload_path TEXT NOT NULL DEFAULT '',
		result JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_patrimonios_status ON patrimonios(status)`,
	`CREATE INDEX IF NOT EXISTS idx_patrimonios_categoria ON patrimonios(id_categoria)`,
	`CREATE INDEX IF NOT EXISTS idx_auditorias_tabela ON auditorias(tabela_afetada, id_registro_afetado)`,
	`CREATE INDEX IF NOT EXISTS idx_manutencoes_patrimonio ON manutencoes(id_patrimonio)`,
	`CREATE INDEX IF NOT EXISTS idx_movimentacoes_patrimonio ON movimentacoes(id_patrimonio)`,
	`CREATE INDEX IF NOT EXISTS idx_itens_nota_fiscal ON itens_nota(id_nota_fiscal)`,
}

// EnsureSchema creates every table the service reads or writes. Each
// statement is idempotent so startup can run it unconditionally.
func EnsureSchema(ctx context.Context, pool *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
